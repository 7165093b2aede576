package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/mocks"
)

func newTestService(t *testing.T) (*Service, *mocks.MockInventoryRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockInventoryRepository(ctrl)
	return NewService(repo, nil, zerolog.Nop()), repo
}

// beginMockTx hands the repository's BeginTx a real pgxmock-backed
// transaction instead of a literal nil, since the service calls
// tx.Commit/tx.Rollback directly on whatever BeginTx returns — a nil
// pgx.Tx would panic the moment either is invoked.
func beginMockTx(t *testing.T, repo *mocks.MockInventoryRepository, ctx context.Context) pgxmock.PgxPoolIface {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	pool.ExpectBegin()
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	repo.EXPECT().BeginTx(ctx).Return(tx, nil)
	return pool
}

func TestService_ReserveStock_Success(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productID := uuid.New()
	items := []LineItem{{ProductID: productID, Quantity: 2}}
	product := &Product{ID: productID, SKU: "sku-1", StockQuantity: 10, Version: 1}

	pool := beginMockTx(t, repo, ctx)
	pool.ExpectCommit()
	repo.EXPECT().LockOrder(ctx, gomock.Any(), orderID).Return(nil)
	repo.EXPECT().GetReservationsByOrderForUpdate(ctx, gomock.Any(), orderID).Return(nil, nil)
	repo.EXPECT().GetProductForUpdate(ctx, gomock.Any(), productID).Return(product, nil)
	repo.EXPECT().CreateReservation(ctx, gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().UpdateStock(ctx, gomock.Any(), productID, 8).Return(nil)

	result, err := svc.ReserveStock(ctx, orderID, items)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReserved, result.Outcome)
	assert.Len(t, result.ReservationIDs, 1)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestService_ReserveStock_ShortCircuitsOnExistingReservation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	existing := []*Reservation{{ID: uuid.New(), OrderID: orderID, Status: ReservationStatusReserved}}

	pool := beginMockTx(t, repo, ctx)
	pool.ExpectCommit()
	repo.EXPECT().LockOrder(ctx, gomock.Any(), orderID).Return(nil)
	repo.EXPECT().GetReservationsByOrderForUpdate(ctx, gomock.Any(), orderID).Return(existing, nil)

	result, err := svc.ReserveStock(ctx, orderID, []LineItem{{ProductID: uuid.New(), Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyReserved, result.Outcome)
	assert.Equal(t, existing[0].ID, result.ReservationIDs[0])
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestService_ReserveStock_InsufficientStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productID := uuid.New()
	product := &Product{ID: productID, SKU: "sku-1", StockQuantity: 1, Version: 1}

	beginMockTx(t, repo, ctx)
	repo.EXPECT().LockOrder(ctx, gomock.Any(), orderID).Return(nil)
	repo.EXPECT().GetReservationsByOrderForUpdate(ctx, gomock.Any(), orderID).Return(nil, nil)
	repo.EXPECT().GetProductForUpdate(ctx, gomock.Any(), productID).Return(product, nil)

	_, err := svc.ReserveStock(ctx, orderID, []LineItem{{ProductID: productID, Quantity: 5}})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)
}

func TestService_ReserveStock_ProductNotFound(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productID := uuid.New()

	beginMockTx(t, repo, ctx)
	repo.EXPECT().LockOrder(ctx, gomock.Any(), orderID).Return(nil)
	repo.EXPECT().GetReservationsByOrderForUpdate(ctx, gomock.Any(), orderID).Return(nil, nil)
	repo.EXPECT().GetProductForUpdate(ctx, gomock.Any(), productID).Return(nil, apperr.ErrNotFound)

	_, err := svc.ReserveStock(ctx, orderID, []LineItem{{ProductID: productID, Quantity: 1}})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "product_not_found", e.Code)
}

func TestService_ReleaseStock_NoOpWhenNoneReserved(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()

	repo.EXPECT().GetReservationsByOrder(ctx, orderID).Return(nil, nil)

	err := svc.ReleaseStock(ctx, orderID)
	require.NoError(t, err)
}

func TestService_ReleaseStock_SkipsAlreadyReleased(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productID := uuid.New()
	reservations := []*Reservation{
		{ID: uuid.New(), OrderID: orderID, ProductID: productID, Quantity: 2, Status: ReservationStatusReleased},
	}

	repo.EXPECT().GetReservationsByOrder(ctx, orderID).Return(reservations, nil)
	pool := beginMockTx(t, repo, ctx)
	pool.ExpectCommit()

	err := svc.ReleaseStock(ctx, orderID)
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestService_ReleaseStock_RestoresStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	productID := uuid.New()
	reservations := []*Reservation{
		{ID: uuid.New(), OrderID: orderID, ProductID: productID, Quantity: 3, Status: ReservationStatusReserved},
	}
	product := &Product{ID: productID, StockQuantity: 5}

	repo.EXPECT().GetReservationsByOrder(ctx, orderID).Return(reservations, nil)
	pool := beginMockTx(t, repo, ctx)
	pool.ExpectCommit()
	repo.EXPECT().GetProductForUpdate(ctx, gomock.Any(), productID).Return(product, nil)
	repo.EXPECT().UpdateStock(ctx, gomock.Any(), productID, 8).Return(nil)
	repo.EXPECT().ReleaseReservation(ctx, gomock.Any(), reservations[0].ID).Return(nil)

	err := svc.ReleaseStock(ctx, orderID)
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestService_AddStock_IdempotentReplay(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()
	existing := &Adjustment{ID: uuid.New(), ProductID: productID, IdempotencyKey: "adj-1"}

	repo.EXPECT().GetAdjustmentByIdempotencyKey(ctx, "adj-1").Return(existing, nil)

	adj, alreadyExisted, err := svc.AddStock(ctx, productID, "adj-1", 5, "restock", nil, nil)
	require.NoError(t, err)
	assert.True(t, alreadyExisted)
	assert.Equal(t, existing.ID, adj.ID)
}

func TestService_AddStock_CreatesAdjustment(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()
	product := &Product{ID: productID, StockQuantity: 10}

	repo.EXPECT().GetAdjustmentByIdempotencyKey(ctx, "adj-2").Return(nil, apperr.ErrNotFound)
	pool := beginMockTx(t, repo, ctx)
	pool.ExpectCommit()
	repo.EXPECT().GetProductForUpdate(ctx, gomock.Any(), productID).Return(product, nil)
	repo.EXPECT().CreateAdjustment(ctx, gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().UpdateStock(ctx, gomock.Any(), productID, 15).Return(nil)

	adj, alreadyExisted, err := svc.AddStock(ctx, productID, "adj-2", 5, "restock", nil, nil)
	require.NoError(t, err)
	assert.False(t, alreadyExisted)
	assert.Equal(t, 15, adj.NewQuantity)
	assert.NoError(t, pool.ExpectationsWereMet())
}
