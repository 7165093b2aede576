package edge

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/ledger"
	"github.com/cypherlabdev/orderflow/internal/mocks"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

type testDeps struct {
	ledgers  *mocks.MockLedgerRepository
	outboxes *mocks.MockOutboxRepository
	payments *mocks.MockPaymentsClient
	pool     pgxmock.PgxPoolIface
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	ctrl := gomock.NewController(t)
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	deps := &testDeps{
		ledgers:  mocks.NewMockLedgerRepository(ctrl),
		outboxes: mocks.NewMockOutboxRepository(ctrl),
		payments: mocks.NewMockPaymentsClient(ctrl),
		pool:     pool,
	}
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	svc := NewService(pool, deps.ledgers, deps.outboxes, deps.payments, metrics, zerolog.Nop())
	return svc, deps
}

func validRequest() CreateRequest {
	return CreateRequest{
		IdempotencyKey: "idem-1",
		UserID:         uuid.New(),
		Email:          "buyer@example.com",
		Currency:       "USD",
		Items:          []Item{{ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 500}},
		PaymentMethod:  "card",
		PaymentToken:   "tok_ok",
	}
}

func TestService_CreateOrder_Success(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	req := validRequest()

	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().GetByClientRequestID(ctx, req.IdempotencyKey).Return(nil, apperr.ErrNotFound)
	deps.payments.EXPECT().Authorize(ctx, gomock.Any()).Return(AuthorizeResult{AuthorizationID: "auth-1"}, nil)
	deps.ledgers.EXPECT().Create(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	deps.outboxes.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(nil)
	deps.pool.ExpectCommit()

	result, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, string(ledger.StatusAuthorized), result.Status)
	assert.NotEqual(t, uuid.Nil, result.OrderLedgerID)
	assert.NoError(t, deps.pool.ExpectationsWereMet())
}

func TestService_CreateOrder_DuplicateReturnsExisting(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	req := validRequest()
	existingID := uuid.New()
	existing := &ledger.OrderLedger{ID: existingID, Status: ledger.StatusAuthorized}

	deps.ledgers.EXPECT().GetByClientRequestID(ctx, req.IdempotencyKey).Return(existing, nil)

	_, err := svc.CreateOrder(ctx, req)
	var dup *DuplicateRequestError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, existingID, dup.OrderLedgerID)
}

func TestService_CreateOrder_PaymentDeclinedPersistsAuditRow(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	req := validRequest()

	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().GetByClientRequestID(ctx, req.IdempotencyKey).Return(nil, apperr.ErrNotFound)
	deps.payments.EXPECT().Authorize(ctx, gomock.Any()).Return(AuthorizeResult{}, apperr.New(apperr.KindBusiness, "card_declined", "payment declined"))
	deps.ledgers.EXPECT().Create(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	deps.pool.ExpectCommit()

	_, err := svc.CreateOrder(ctx, req)
	var declined *PaymentDeclinedError
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "card_declined", declined.DeclineCode)
	assert.NotEqual(t, uuid.Nil, declined.OrderLedgerID)
	assert.NoError(t, deps.pool.ExpectationsWereMet())
}

func TestService_CreateOrder_GatewayErrorPersistsNothing(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	req := validRequest()

	deps.ledgers.EXPECT().GetByClientRequestID(ctx, req.IdempotencyKey).Return(nil, apperr.ErrNotFound)
	deps.payments.EXPECT().Authorize(ctx, gomock.Any()).Return(AuthorizeResult{}, apperr.New(apperr.KindTransient, "gateway_error", "gateway unavailable"))

	_, err := svc.CreateOrder(ctx, req)
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
}

func TestService_FindById(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	l := &ledger.OrderLedger{ID: id, Status: ledger.StatusAuthorized}
	items := []ledger.Item{{ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 500}}

	deps.ledgers.EXPECT().GetByID(ctx, id).Return(l, nil)
	deps.ledgers.EXPECT().GetItems(ctx, id).Return(items, nil)

	gotLedger, gotItems, err := svc.FindById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, l, gotLedger)
	assert.Equal(t, items, gotItems)
}
