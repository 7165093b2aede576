package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// CreateRequest is the input to CreateOrder.
type CreateRequest struct {
	OrderLedgerID    uuid.UUID
	UserID           uuid.UUID
	TotalAmountCents int64
	Currency         string
	Items            []Item
}

// Service implements the Orders service operations of spec.md §4.7:
// CreateOrder, FindById, Cancel, Confirm, each idempotent on its
// respective key/target status.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "orders_service").Logger()}
}

// CreateOrder is idempotent on order_ledger_id: a second create with
// the same ledger id returns the existing order rather than erroring.
func (s *Service) CreateOrder(ctx context.Context, req CreateRequest) (*Order, error) {
	if existing, err := s.repo.GetByLedgerID(ctx, req.OrderLedgerID); err == nil {
		s.logger.Info().Str("order_ledger_id", req.OrderLedgerID.String()).
			Msg("order already exists for this ledger id, returning existing")
		return existing, nil
	} else if e, ok := apperr.As(err); !ok || e != apperr.ErrNotFound {
		return nil, err
	}

	o := &Order{
		OrderLedgerID:    req.OrderLedgerID,
		UserID:           req.UserID,
		Status:           StatusCreated,
		TotalAmountCents: req.TotalAmountCents,
		Currency:         req.Currency,
		Items:            req.Items,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindDuplicate {
			// Lost the race against a concurrent identical create; the
			// row now exists, so resolve it the same idempotent way.
			return s.repo.GetByLedgerID(ctx, req.OrderLedgerID)
		}
		return nil, err
	}
	return o, nil
}

// FindById looks up an order by its primary key.
func (s *Service) FindById(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Cancel transitions an order to CANCELLED. Idempotent on CANCELLED ->
// CANCELLED; fails with apperr.ErrInvalidStatus transitioning from
// CONFIRMED, per spec.md §4.7.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case StatusCancelled:
		return o, nil
	case StatusConfirmed:
		return nil, apperr.ErrInvalidStatus
	}
	o.Status = StatusCancelled
	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Confirm transitions an order to CONFIRMED. Idempotent on CONFIRMED ->
// CONFIRMED; fails with apperr.ErrInvalidStatus transitioning from
// CANCELLED, per spec.md §4.7.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case StatusConfirmed:
		return o, nil
	case StatusCancelled:
		return nil, apperr.ErrInvalidStatus
	}
	o.Status = StatusConfirmed
	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
