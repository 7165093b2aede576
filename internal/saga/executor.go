package saga

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/dbtx"
	"github.com/cypherlabdev/orderflow/internal/inventory"
	"github.com/cypherlabdev/orderflow/internal/ledger"
	"github.com/cypherlabdev/orderflow/internal/observability"
	"github.com/cypherlabdev/orderflow/internal/outbox"
)

// Executor implements outbox.Handler, driving an OrderLedger through
// the saga's directed state graph (spec.md §4.2), using the ledger's
// current status as the resumable state so re-delivery of the same
// event is safe (Invariant P5).
type Executor struct {
	ledgerRepo  ledger.Repository
	pool        dbtx.Database
	client      StepClient
	retryPolicy RetryPolicy
	compensator *Compensator
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

func NewExecutor(
	ledgerRepo ledger.Repository,
	pool dbtx.Database,
	client StepClient,
	retryPolicy RetryPolicy,
	compensator *Compensator,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Executor {
	return &Executor{
		ledgerRepo:  ledgerRepo,
		pool:        pool,
		client:      client,
		retryPolicy: retryPolicy,
		compensator: compensator,
		metrics:     metrics,
		logger:      logger.With().Str("component", "saga_executor").Logger(),
	}
}

var _ outbox.Handler = (*Executor)(nil)

// Handle is the outbox.Handler entrypoint: resolves the event's ledger
// row and drives it forward.
func (e *Executor) Handle(ctx context.Context, event *outbox.Event) (outbox.Result, error) {
	var payload outbox.OrderAuthorizedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		e.logger.Error().Err(err).Str("event_id", event.ID).Msg("failed to parse outbox payload")
		return outbox.Result{Outcome: outbox.OutcomeFailed}, nil
	}

	ledgerID, err := uuid.Parse(payload.OrderLedgerID)
	if err != nil {
		e.logger.Error().Err(err).Str("event_id", event.ID).Msg("invalid order_ledger_id in payload")
		return outbox.Result{Outcome: outbox.OutcomeFailed}, nil
	}

	return e.Run(ctx, ledgerID)
}

// Run drives the ledger identified by ledgerID through every step it
// has not yet passed, stopping at the first failure or at COMPLETED.
func (e *Executor) Run(ctx context.Context, ledgerID uuid.UUID) (outbox.Result, error) {
	l, err := e.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		e.logger.Error().Err(err).Str("order_ledger_id", ledgerID.String()).Msg("ledger not found for event")
		return outbox.Result{Outcome: outbox.OutcomeFailed}, nil
	}

	for {
		if l.Status.IsTerminal() {
			if l.Status == ledger.StatusCompleted {
				return outbox.Result{Outcome: outbox.OutcomeCompleted}, nil
			}
			return outbox.Result{Outcome: outbox.OutcomeFailed}, nil
		}
		if l.Status == ledger.StatusCompensating {
			// A prior run already committed COMPENSATING but crashed
			// before compensation finished; do not re-enter the
			// forward path, but do retry finalising compensation.
			return e.finishCompensation(ctx, l)
		}

		items, err := e.ledgerRepo.GetItems(ctx, l.ID)
		if err != nil {
			return outbox.Result{}, err
		}

		stepName := string(l.Status)
		stepStart := time.Now()

		var stepErr error
		switch l.Status {
		case ledger.StatusAuthorized:
			stepErr = e.stepCreateOrder(ctx, l, items)
		case ledger.StatusOrderCreated:
			stepErr = e.stepReserveInventory(ctx, l, items)
		case ledger.StatusInventoryReserved:
			stepErr = e.stepCapturePayment(ctx, l)
		case ledger.StatusPaymentCaptured:
			stepErr = e.stepConfirmOrder(ctx, l)
		default:
			e.logger.Error().Str("order_ledger_id", l.ID.String()).Str("status", string(l.Status)).
				Msg("ledger in unexpected status for saga step")
			return outbox.Result{Outcome: outbox.OutcomeFailed}, nil
		}

		if e.metrics != nil {
			outcome := "success"
			if stepErr != nil {
				outcome = "failure"
			}
			e.metrics.SagaStepDuration.WithLabelValues(stepName, outcome).Observe(time.Since(stepStart).Seconds())
		}

		if stepErr != nil {
			return e.handleStepFailure(ctx, l, stepErr)
		}
		// step succeeded and l.Status was advanced in place; loop to
		// attempt the next step within the same invocation.
	}
}

func (e *Executor) stepCreateOrder(ctx context.Context, l *ledger.OrderLedger, items []ledger.Item) error {
	reqItems := make([]CreateOrderItem, 0, len(items))
	for _, it := range items {
		reqItems = append(reqItems, CreateOrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPriceCents: it.UnitPriceCents})
	}

	result, err := e.client.CreateOrder(ctx, CreateOrderRequest{
		OrderLedgerID:    l.ID,
		UserID:           l.UserID,
		TotalAmountCents: l.TotalAmountCents,
		Currency:         l.Currency,
		Items:            reqItems,
	})
	if err != nil {
		return err
	}

	l.OrderID = &result.OrderID
	l.Status = ledger.StatusOrderCreated
	return e.commitStatus(ctx, l)
}

func (e *Executor) stepReserveInventory(ctx context.Context, l *ledger.OrderLedger, items []ledger.Item) error {
	reqItems := make([]inventory.LineItem, 0, len(items))
	for _, it := range items {
		reqItems = append(reqItems, inventory.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	_, err := e.client.ReserveInventory(ctx, ReserveInventoryRequest{OrderID: *l.OrderID, Items: reqItems})
	if err != nil {
		return err
	}

	l.Status = ledger.StatusInventoryReserved
	return e.commitStatus(ctx, l)
}

func (e *Executor) stepCapturePayment(ctx context.Context, l *ledger.OrderLedger) error {
	if l.PaymentAuthorizationID == nil {
		return apperr.New(apperr.KindInternal, "missing_authorization", "ledger has no payment_authorization_id at capture step")
	}
	idempotencyKey := fmt.Sprintf("capture-%s", l.ID)
	if err := e.client.CapturePayment(ctx, CapturePaymentRequest{
		AuthorizationID: *l.PaymentAuthorizationID,
		IdempotencyKey:  idempotencyKey,
	}); err != nil {
		return err
	}

	l.Status = ledger.StatusPaymentCaptured
	return e.commitStatus(ctx, l)
}

func (e *Executor) stepConfirmOrder(ctx context.Context, l *ledger.OrderLedger) error {
	if err := e.client.ConfirmOrder(ctx, *l.OrderID); err != nil {
		return err
	}

	l.Status = ledger.StatusCompleted
	return e.commitStatus(ctx, l)
}

func (e *Executor) commitStatus(ctx context.Context, l *ledger.OrderLedger) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "saga_tx_begin_failed", fmt.Errorf("begin status commit: %w", err))
	}
	defer tx.Rollback(ctx)

	if err := e.ledgerRepo.UpdateStatus(ctx, tx, l); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransient, "saga_commit_failed", fmt.Errorf("commit status: %w", err))
	}

	e.logger.Info().Str("order_ledger_id", l.ID.String()).Str("status", string(l.Status)).
		Msg("saga step committed")
	return nil
}

func (e *Executor) handleStepFailure(ctx context.Context, l *ledger.OrderLedger, stepErr error) (outbox.Result, error) {
	retryable := apperr.IsRetryable(stepErr)
	decision := e.retryPolicy.Decide(retryable, l.RetryCount+1)

	e.logger.Warn().Err(stepErr).Str("order_ledger_id", l.ID.String()).
		Str("status", string(l.Status)).Bool("retryable", retryable).
		Int("retry_count", l.RetryCount).Msg("saga step failed")

	if decision == DecisionRetry {
		l.RetryCount++
		nextRetryAt := e.retryPolicy.NextRetryAt(l.RetryCount)
		l.NextRetryAt = &nextRetryAt

		tx, err := e.pool.Begin(ctx)
		if err != nil {
			return outbox.Result{}, apperr.Wrap(apperr.KindTransient, "saga_retry_tx_begin_failed", err)
		}
		defer tx.Rollback(ctx)
		if err := e.ledgerRepo.ScheduleRetry(ctx, tx, l); err != nil {
			return outbox.Result{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return outbox.Result{}, apperr.Wrap(apperr.KindTransient, "saga_retry_commit_failed", err)
		}

		if e.metrics != nil {
			e.metrics.SagaRetriesTotal.WithLabelValues(string(l.Status)).Inc()
		}
		return outbox.Result{Outcome: outbox.OutcomeRequiresRetry, NextRetryAt: nextRetryAt}, nil
	}

	return e.enterCompensation(ctx, l)
}

func (e *Executor) enterCompensation(ctx context.Context, l *ledger.OrderLedger) (outbox.Result, error) {
	preStatus := l.Status
	l.PreCompensationStatus = &preStatus
	l.Status = ledger.StatusCompensating
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return outbox.Result{}, apperr.Wrap(apperr.KindTransient, "saga_compensating_tx_begin_failed", err)
	}
	if err := e.ledgerRepo.UpdateStatus(ctx, tx, l); err != nil {
		tx.Rollback(ctx)
		return outbox.Result{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return outbox.Result{}, apperr.Wrap(apperr.KindTransient, "saga_compensating_commit_failed", err)
	}

	return e.finishCompensation(ctx, l)
}

// finishCompensation runs the Compensation Executor and finalises the
// ledger to FAILED regardless of outcome, per spec.md §4.5's
// unconditional finalisation rule.
func (e *Executor) finishCompensation(ctx context.Context, l *ledger.OrderLedger) (outbox.Result, error) {
	// lastStatus is the status the ledger held immediately before
	// COMPENSATING was committed, captured by enterCompensation so a
	// crash-and-resume reads the same value rather than re-deriving it.
	var lastStatus ledger.Status
	if l.PreCompensationStatus != nil {
		lastStatus = *l.PreCompensationStatus
	}

	result := e.compensator.Compensate(ctx, CompensationInput{
		OrderLedgerID:          l.ID,
		OrderID:                l.OrderID,
		PaymentAuthorizationID: l.PaymentAuthorizationID,
		LastSuccessfulStatus:   lastStatus,
	})

	l.Status = ledger.StatusFailed
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return outbox.Result{}, apperr.Wrap(apperr.KindTransient, "saga_failed_tx_begin_failed", err)
	}
	defer tx.Rollback(ctx)
	if err := e.ledgerRepo.UpdateStatus(ctx, tx, l); err != nil {
		return outbox.Result{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return outbox.Result{}, apperr.Wrap(apperr.KindTransient, "saga_failed_commit_failed", err)
	}

	if e.metrics != nil {
		outcome := "compensated"
		if result.Outcome == CompensationFailed {
			outcome = "compensation_failed"
		}
		e.metrics.SagaOutcomes.WithLabelValues(outcome).Inc()
	}

	return outbox.Result{Outcome: outbox.OutcomeCompensated}, nil
}
