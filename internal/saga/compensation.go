package saga

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/ledger"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

// CompensationInput carries everything the Compensation Executor needs
// to decide which steps apply, per spec.md §4.5.
type CompensationInput struct {
	OrderLedgerID          uuid.UUID
	OrderID                *uuid.UUID
	PaymentAuthorizationID *string
	LastSuccessfulStatus   ledger.Status
}

// CompensationOutcome discriminates whether every attempted step
// succeeded.
type CompensationOutcome int

const (
	CompensationCompleted CompensationOutcome = iota
	CompensationFailed
)

// CompensationResult is the return value of Compensate.
type CompensationResult struct {
	Outcome       CompensationOutcome
	StepsExecuted []string
	Errors        map[string]string
}

// Compensator implements the Compensation Executor (C9): best-effort
// reverse-order undoing of already-succeeded saga steps. It never
// stops on a partial failure — it always attempts every applicable
// step, aggregating per-step errors, grounded on spec.md §4.5's
// explicit "never stops" requirement and the teacher's constructor-
// injected client pattern.
type Compensator struct {
	client  StepClient
	alerter CompensationAlerter
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// CompensationAlerter publishes a best-effort alert when a step cannot
// be undone, for human follow-up. Satisfied by amqp.Alerter
// in production; nil-safe (a nil alerter just skips the publish).
type CompensationAlerter interface {
	Alert(ctx context.Context, orderLedgerID uuid.UUID, errors map[string]string)
}

func NewCompensator(client StepClient, alerter CompensationAlerter, metrics *observability.Metrics, logger zerolog.Logger) *Compensator {
	return &Compensator{
		client:  client,
		alerter: alerter,
		metrics: metrics,
		logger:  logger.With().Str("component", "compensation_executor").Logger(),
	}
}

// Compensate executes Void Payment -> Release Inventory -> Cancel Order
// in strict order, skipping any step whose applicability condition
// (spec.md §4.5) is not met, and never aborting early on a step failure.
func (c *Compensator) Compensate(ctx context.Context, in CompensationInput) CompensationResult {
	result := CompensationResult{Outcome: CompensationCompleted, Errors: map[string]string{}}

	if c.shouldVoidPayment(in) {
		result.StepsExecuted = append(result.StepsExecuted, "void_payment")
		idempotencyKey := fmt.Sprintf("compensate-void-%s", in.OrderLedgerID)
		if err := c.client.VoidPayment(ctx, VoidPaymentRequest{
			AuthorizationID: *in.PaymentAuthorizationID,
			IdempotencyKey:  idempotencyKey,
		}); err != nil {
			if e, ok := apperr.As(err); !ok || e != apperr.ErrAlreadyVoided {
				c.fail(&result, "void_payment", err)
			}
		}
	}

	if c.shouldReleaseInventory(in) {
		result.StepsExecuted = append(result.StepsExecuted, "release_inventory")
		if err := c.client.ReleaseInventory(ctx, *in.OrderID); err != nil {
			c.fail(&result, "release_inventory", err)
		}
	}

	if in.OrderID != nil {
		result.StepsExecuted = append(result.StepsExecuted, "cancel_order")
		if err := c.client.CancelOrder(ctx, *in.OrderID); err != nil {
			c.fail(&result, "cancel_order", err)
		}
	}

	if len(result.Errors) > 0 {
		result.Outcome = CompensationFailed
		if c.alerter != nil {
			c.alerter.Alert(ctx, in.OrderLedgerID, result.Errors)
		}
	}

	if c.metrics != nil {
		for step := range result.Errors {
			c.metrics.CompensationFailed.WithLabelValues(step).Inc()
		}
	}

	c.logger.Info().
		Str("order_ledger_id", in.OrderLedgerID.String()).
		Strs("steps_executed", result.StepsExecuted).
		Int("errors", len(result.Errors)).
		Msg("compensation finished")

	return result
}

// shouldVoidPayment: only if capture has not happened yet (status is
// AUTHORIZED, ORDER_CREATED, or INVENTORY_RESERVED) and an
// authorization exists.
func (c *Compensator) shouldVoidPayment(in CompensationInput) bool {
	if in.PaymentAuthorizationID == nil {
		return false
	}
	switch in.LastSuccessfulStatus {
	case ledger.StatusAuthorized, ledger.StatusOrderCreated, ledger.StatusInventoryReserved:
		return true
	default:
		return false
	}
}

// shouldReleaseInventory: only if a reservation could exist (status is
// INVENTORY_RESERVED or PAYMENT_CAPTURED) and an order_id exists.
func (c *Compensator) shouldReleaseInventory(in CompensationInput) bool {
	if in.OrderID == nil {
		return false
	}
	switch in.LastSuccessfulStatus {
	case ledger.StatusInventoryReserved, ledger.StatusPaymentCaptured:
		return true
	default:
		return false
	}
}

func (c *Compensator) fail(result *CompensationResult, step string, err error) {
	result.Errors[step] = err.Error()
	c.logger.Error().Err(err).Str("step", step).Msg("compensation step failed")
}
