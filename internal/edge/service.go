package edge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/dbtx"
	"github.com/cypherlabdev/orderflow/internal/ledger"
	"github.com/cypherlabdev/orderflow/internal/observability"
	"github.com/cypherlabdev/orderflow/internal/outbox"
)

// DuplicateRequestError is returned when ClientRequestID already names
// an existing ledger row (spec.md §4.1 step 3) — the caller's retry of
// an already-accepted request.
type DuplicateRequestError struct {
	OrderLedgerID uuid.UUID
	Status        ledger.Status
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("duplicate request for ledger %s (status %s)", e.OrderLedgerID, e.Status)
}

// PaymentDeclinedError is returned when the gateway declines the
// authorization. OrderLedgerID is always populated — step 5 of
// spec.md §4.1 persists the audit row before failing.
type PaymentDeclinedError struct {
	OrderLedgerID uuid.UUID
	DeclineCode   string
	Message       string
}

func (e *PaymentDeclinedError) Error() string { return e.Message }

// GatewayError is returned when the gateway itself cannot be reached
// or errors transiently; nothing is persisted (spec.md §4.1 step 6).
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string { return e.Message }

// Service implements the Edge Order Service (C6).
type Service struct {
	pool     dbtx.Database
	ledgers  ledger.Repository
	outboxes outbox.Repository
	payments PaymentsClient
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

func NewService(
	pool dbtx.Database,
	ledgers ledger.Repository,
	outboxes outbox.Repository,
	payments PaymentsClient,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		pool:     pool,
		ledgers:  ledgers,
		outboxes: outboxes,
		payments: payments,
		metrics:  metrics,
		logger:   logger.With().Str("component", "edge_service").Logger(),
	}
}

// CreateOrder implements spec.md §4.1's algorithm: idempotency lookup,
// authorize, then a single transaction writing the ledger, its items,
// and the OrderAuthorized outbox event.
func (s *Service) CreateOrder(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if existing, err := s.ledgers.GetByClientRequestID(ctx, req.IdempotencyKey); err == nil {
		s.metrics.OrdersAccepted.WithLabelValues("duplicate").Inc()
		return nil, &DuplicateRequestError{OrderLedgerID: existing.ID, Status: existing.Status}
	} else if e, ok := apperr.As(err); !ok || e != apperr.ErrNotFound {
		return nil, err
	}

	total := sumItems(req.Items)

	authResult, authErr := s.payments.Authorize(ctx, AuthorizeRequest{
		UserID:         req.UserID.String(),
		AmountCents:    total,
		Currency:       req.Currency,
		Token:          req.PaymentToken,
		IdempotencyKey: req.IdempotencyKey,
	})
	if authErr != nil {
		e, ok := apperr.As(authErr)
		if ok && e.Kind == apperr.KindBusiness {
			l := newLedger(req, total, nil, ledger.StatusAuthorizationFailed)
			if writeErr := s.writeLedger(ctx, l, req.Items, nil); writeErr != nil {
				return nil, writeErr
			}
			s.metrics.OrdersAccepted.WithLabelValues("rejected").Inc()
			return nil, &PaymentDeclinedError{OrderLedgerID: l.ID, DeclineCode: e.Code, Message: e.Message}
		}
		s.metrics.OrdersAccepted.WithLabelValues("rejected").Inc()
		msg := authErr.Error()
		if ok {
			msg = e.Message
		}
		return nil, &GatewayError{Message: msg}
	}

	authID := authResult.AuthorizationID
	l := newLedger(req, total, &authID, ledger.StatusAuthorized)
	if err := s.writeLedger(ctx, l, req.Items, &authID); err != nil {
		return nil, err
	}

	s.metrics.OrdersAccepted.WithLabelValues("accepted").Inc()
	s.logger.Info().
		Str("order_ledger_id", l.ID.String()).
		Str("client_request_id", req.IdempotencyKey).
		Int64("total_amount_cents", total).
		Msg("order accepted")

	return &CreateResult{OrderLedgerID: l.ID, Status: string(l.Status)}, nil
}

// FindById returns a ledger row and its items for GET /orders/{order_ledger_id}.
func (s *Service) FindById(ctx context.Context, id uuid.UUID) (*ledger.OrderLedger, []ledger.Item, error) {
	l, err := s.ledgers.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.ledgers.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return l, items, nil
}

func newLedger(req CreateRequest, total int64, authID *string, status ledger.Status) *ledger.OrderLedger {
	return &ledger.OrderLedger{
		ID:                     uuid.New(),
		ClientRequestID:        req.IdempotencyKey,
		UserID:                 req.UserID,
		Email:                  req.Email,
		Status:                 status,
		TotalAmountCents:       total,
		Currency:               req.Currency,
		PaymentAuthorizationID: authID,
		RetryCount:             0,
	}
}

// writeLedger persists the ledger row and its items, and — only when
// authID is non-nil, i.e. authorization succeeded — the OrderAuthorized
// outbox event, all in one transaction (spec.md §4.1 step 7).
func (s *Service) writeLedger(ctx context.Context, l *ledger.OrderLedger, reqItems []Item, authID *string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "edge_tx_begin_failed", fmt.Errorf("begin order creation: %w", err))
	}
	defer tx.Rollback(ctx)

	items := make([]ledger.Item, 0, len(reqItems))
	for _, it := range reqItems {
		items = append(items, ledger.Item{ProductID: it.ProductID, Quantity: it.Quantity, UnitPriceCents: it.UnitPriceCents})
	}

	if err := s.ledgers.Create(ctx, tx, l, items); err != nil {
		return err
	}

	if authID != nil {
		payload, err := json.Marshal(outbox.OrderAuthorizedPayload{
			OrderLedgerID:          l.ID.String(),
			UserID:                 l.UserID.String(),
			Email:                  l.Email,
			TotalAmountCents:       l.TotalAmountCents,
			Currency:               l.Currency,
			PaymentAuthorizationID: *authID,
		})
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "outbox_payload_marshal_failed", err)
		}
		event := &outbox.Event{
			AggregateType: "order_ledger",
			AggregateID:   l.ID.String(),
			EventType:     outbox.EventTypeOrderAuthorized,
			Payload:       payload,
			Status:        outbox.StatusPending,
		}
		if err := s.outboxes.Create(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransient, "edge_commit_failed", fmt.Errorf("commit order creation: %w", err))
	}
	return nil
}

func sumItems(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	return total
}
