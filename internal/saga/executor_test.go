package saga

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
	"github.com/cypherlabdev/orderflow/internal/outbox"
)

type executorDeps struct {
	ledgers *mocks.MockLedgerRepository
	client  *mocks.MockStepClient
	alerter *mocks.MockCompensationAlerter
	pool    pgxmock.PgxPoolIface
}

func newTestExecutor(t *testing.T) (*Executor, *executorDeps) {
	ctrl := gomock.NewController(t)
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	deps := &executorDeps{
		ledgers: mocks.NewMockLedgerRepository(ctrl),
		client:  mocks.NewMockStepClient(ctrl),
		alerter: mocks.NewMockCompensationAlerter(ctrl),
		pool:    pool,
	}
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	compensator := NewCompensator(deps.client, deps.alerter, metrics, zerolog.Nop())
	retryPolicy := NewRetryPolicy(3, 0, 2)
	executor := NewExecutor(deps.ledgers, pool, deps.client, retryPolicy, compensator, metrics, zerolog.Nop())
	return executor, deps
}

func TestExecutor_Run_DrivesAuthorizedToCompleted(t *testing.T) {
	executor, deps := newTestExecutor(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	authID := "auth-1"
	orderID := uuid.New()

	l := &ledger.OrderLedger{ID: ledgerID, Status: ledger.StatusAuthorized, PaymentAuthorizationID: &authID}
	items := []ledger.Item{{ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 500}}

	deps.ledgers.EXPECT().GetByID(ctx, ledgerID).Return(l, nil)

	// step: AUTHORIZED -> ORDER_CREATED
	deps.ledgers.EXPECT().GetItems(ctx, ledgerID).Return(items, nil)
	deps.client.EXPECT().CreateOrder(ctx, gomock.Any()).Return(CreateOrderResult{OrderID: orderID}, nil)
	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	// step: ORDER_CREATED -> INVENTORY_RESERVED
	deps.ledgers.EXPECT().GetItems(ctx, ledgerID).Return(items, nil)
	deps.client.EXPECT().ReserveInventory(ctx, gomock.Any()).Return(ReserveInventoryResult{}, nil)
	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	// step: INVENTORY_RESERVED -> PAYMENT_CAPTURED
	deps.ledgers.EXPECT().GetItems(ctx, ledgerID).Return(items, nil)
	deps.client.EXPECT().CapturePayment(ctx, gomock.Any()).Return(nil)
	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	// step: PAYMENT_CAPTURED -> COMPLETED
	deps.ledgers.EXPECT().GetItems(ctx, ledgerID).Return(items, nil)
	deps.client.EXPECT().ConfirmOrder(ctx, orderID).Return(nil)
	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	result, err := executor.Run(ctx, ledgerID)
	require.NoError(t, err)
	assert.Equal(t, outbox.OutcomeCompleted, result.Outcome)
	assert.Equal(t, ledger.StatusCompleted, l.Status)
	assert.NoError(t, deps.pool.ExpectationsWereMet())
}

func TestExecutor_Run_RetriesOnTransientFailure(t *testing.T) {
	executor, deps := newTestExecutor(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	authID := "auth-1"
	l := &ledger.OrderLedger{ID: ledgerID, Status: ledger.StatusAuthorized, PaymentAuthorizationID: &authID, RetryCount: 0}
	items := []ledger.Item{{ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 500}}

	deps.ledgers.EXPECT().GetByID(ctx, ledgerID).Return(l, nil)
	deps.ledgers.EXPECT().GetItems(ctx, ledgerID).Return(items, nil)
	deps.client.EXPECT().CreateOrder(ctx, gomock.Any()).
		Return(CreateOrderResult{}, apperr.New(apperr.KindTransient, "service_connection_error", "orders unreachable"))

	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().ScheduleRetry(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	result, err := executor.Run(ctx, ledgerID)
	require.NoError(t, err)
	assert.Equal(t, outbox.OutcomeRequiresRetry, result.Outcome)
	assert.Equal(t, 1, l.RetryCount)
	assert.Equal(t, ledger.StatusAuthorized, l.Status)
	assert.NoError(t, deps.pool.ExpectationsWereMet())
}

func TestExecutor_Run_EntersCompensationOnNonRetryableFailure(t *testing.T) {
	executor, deps := newTestExecutor(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	authID := "auth-1"
	orderID := uuid.New()
	l := &ledger.OrderLedger{ID: ledgerID, Status: ledger.StatusInventoryReserved, PaymentAuthorizationID: &authID, OrderID: &orderID}
	items := []ledger.Item{{ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 500}}

	deps.ledgers.EXPECT().GetByID(ctx, ledgerID).Return(l, nil)
	deps.ledgers.EXPECT().GetItems(ctx, ledgerID).Return(items, nil)
	deps.client.EXPECT().CapturePayment(ctx, gomock.Any()).
		Return(apperr.New(apperr.KindBusiness, "card_declined", "payment declined"))

	// enterCompensation: commit COMPENSATING status
	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	// Compensator runs: last successful status was INVENTORY_RESERVED,
	// so void_payment and release_inventory both apply.
	deps.client.EXPECT().VoidPayment(ctx, gomock.Any()).Return(nil)
	deps.client.EXPECT().ReleaseInventory(ctx, orderID).Return(nil)
	deps.client.EXPECT().CancelOrder(ctx, orderID).Return(nil)

	// finishCompensation: commit FAILED status
	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	result, err := executor.Run(ctx, ledgerID)
	require.NoError(t, err)
	assert.Equal(t, outbox.OutcomeCompensated, result.Outcome)
	assert.Equal(t, ledger.StatusFailed, l.Status)
	assert.NoError(t, deps.pool.ExpectationsWereMet())
}

func TestExecutor_Run_ResumesCompensatingLedgerUsingPersistedPreStatus(t *testing.T) {
	executor, deps := newTestExecutor(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	authID := "auth-1"
	orderID := uuid.New()
	preStatus := ledger.StatusOrderCreated
	l := &ledger.OrderLedger{
		ID:                     ledgerID,
		Status:                 ledger.StatusCompensating,
		PaymentAuthorizationID: &authID,
		OrderID:                &orderID,
		PreCompensationStatus:  &preStatus,
	}

	deps.ledgers.EXPECT().GetByID(ctx, ledgerID).Return(l, nil)

	// ORDER_CREATED means inventory was never reserved: void_payment
	// applies, release_inventory does not.
	deps.client.EXPECT().VoidPayment(ctx, gomock.Any()).Return(nil)
	deps.client.EXPECT().CancelOrder(ctx, orderID).Return(nil)

	deps.pool.ExpectBegin()
	deps.ledgers.EXPECT().UpdateStatus(ctx, gomock.Any(), l).Return(nil)
	deps.pool.ExpectCommit()

	result, err := executor.Run(ctx, ledgerID)
	require.NoError(t, err)
	assert.Equal(t, outbox.OutcomeCompensated, result.Outcome)
	assert.Equal(t, ledger.StatusFailed, l.Status)
	assert.NoError(t, deps.pool.ExpectationsWereMet())
}

func TestExecutor_Run_TerminalLedgerIsANoOp(t *testing.T) {
	executor, deps := newTestExecutor(t)
	ctx := context.Background()
	ledgerID := uuid.New()
	l := &ledger.OrderLedger{ID: ledgerID, Status: ledger.StatusCompleted}

	deps.ledgers.EXPECT().GetByID(ctx, ledgerID).Return(l, nil)

	result, err := executor.Run(ctx, ledgerID)
	require.NoError(t, err)
	assert.Equal(t, outbox.OutcomeCompleted, result.Outcome)
}
