package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/mocks"
)

func newTestService(t *testing.T) (*Service, *mocks.MockOrdersRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrdersRepository(ctrl)
	return NewService(repo, zerolog.Nop()), repo
}

func TestService_CreateOrder_Success(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	ledgerID := uuid.New()

	req := CreateRequest{
		OrderLedgerID:    ledgerID,
		UserID:           uuid.New(),
		TotalAmountCents: 1999,
		Currency:         "USD",
		Items:            []Item{{ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 1999}},
	}

	repo.EXPECT().GetByLedgerID(ctx, ledgerID).Return(nil, apperr.ErrNotFound)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	o, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, o.Status)
	assert.Equal(t, ledgerID, o.OrderLedgerID)
}

func TestService_CreateOrder_IdempotentOnLedgerID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	existing := &Order{ID: uuid.New(), OrderLedgerID: ledgerID, Status: StatusCreated}

	repo.EXPECT().GetByLedgerID(ctx, ledgerID).Return(existing, nil)

	o, err := svc.CreateOrder(ctx, CreateRequest{OrderLedgerID: ledgerID})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, o.ID)
}

func TestService_CreateOrder_LosesRaceOnDuplicateInsert(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	winner := &Order{ID: uuid.New(), OrderLedgerID: ledgerID, Status: StatusCreated}

	repo.EXPECT().GetByLedgerID(ctx, ledgerID).Return(nil, apperr.ErrNotFound)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(apperr.New(apperr.KindDuplicate, "duplicate_request", "already exists"))
	repo.EXPECT().GetByLedgerID(ctx, ledgerID).Return(winner, nil)

	o, err := svc.CreateOrder(ctx, CreateRequest{OrderLedgerID: ledgerID})
	require.NoError(t, err)
	assert.Equal(t, winner.ID, o.ID)
}

func TestService_CreateOrder_LookupErrorPropagates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	ledgerID := uuid.New()

	repo.EXPECT().GetByLedgerID(ctx, ledgerID).Return(nil, errors.New("connection refused"))

	o, err := svc.CreateOrder(ctx, CreateRequest{OrderLedgerID: ledgerID})
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestService_Cancel_FromCreated(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	existing := &Order{ID: id, Status: StatusCreated}

	repo.EXPECT().GetByID(ctx, id).Return(existing, nil)
	repo.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)

	o, err := svc.Cancel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
}

func TestService_Cancel_IdempotentOnAlreadyCancelled(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	existing := &Order{ID: id, Status: StatusCancelled}

	repo.EXPECT().GetByID(ctx, id).Return(existing, nil)

	o, err := svc.Cancel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
}

func TestService_Cancel_RejectsFromConfirmed(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	existing := &Order{ID: id, Status: StatusConfirmed}

	repo.EXPECT().GetByID(ctx, id).Return(existing, nil)

	o, err := svc.Cancel(ctx, id)
	assert.Nil(t, o)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ErrInvalidStatus, e)
}

func TestService_Confirm_RejectsFromCancelled(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	existing := &Order{ID: id, Status: StatusCancelled}

	repo.EXPECT().GetByID(ctx, id).Return(existing, nil)

	o, err := svc.Confirm(ctx, id)
	assert.Nil(t, o)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.ErrInvalidStatus, e)
}

func TestService_Confirm_IdempotentOnAlreadyConfirmed(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	existing := &Order{ID: id, Status: StatusConfirmed}

	repo.EXPECT().GetByID(ctx, id).Return(existing, nil)

	o, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
}

func TestService_FindById(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	expected := &Order{ID: id, Status: StatusCreated}

	repo.EXPECT().GetByID(ctx, id).Return(expected, nil)

	o, err := svc.FindById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, expected, o)
}
