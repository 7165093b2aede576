package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

// ReserveOutcome discriminates whether ReserveStock performed a fresh
// reservation or short-circuited on a prior one for the same order_id.
type ReserveOutcome int

const (
	OutcomeReserved ReserveOutcome = iota
	OutcomeAlreadyReserved
)

// ReserveResult is the return value of ReserveStock.
type ReserveResult struct {
	Outcome        ReserveOutcome
	ReservationIDs []uuid.UUID
}

// Service implements the Inventory Reservation Engine (spec.md §4.6):
// atomic, idempotent, concurrency-safe stock reservation keyed by
// order_id, grounded on the teacher's transaction-scoped service
// methods (one method per operation, repository injected).
type Service struct {
	repo    Repository
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func NewService(repo Repository, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
		logger:  logger.With().Str("component", "inventory_service").Logger(),
	}
}

// ReserveStock implements the atomicity contract of spec.md §4.6: a
// single transaction must either detect an existing reservation set for
// this order_id and short-circuit, or lock every product row, check
// stock, insert reservations, and decrement stock. LockOrder serializes
// concurrent calls for the same order_id on a transaction-scoped
// advisory lock so the existence check and the insert it gates can
// never race — without it, two concurrent callers could both pass the
// check before either commits and both reserve, double-spending stock.
// Any failure rolls back the entire transaction — no partial
// reservations (Invariant P4).
func (s *Service) ReserveStock(ctx context.Context, orderID uuid.UUID, items []LineItem) (ReserveResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return ReserveResult{}, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.LockOrder(ctx, tx, orderID); err != nil {
		return ReserveResult{}, err
	}

	existing, err := s.repo.GetReservationsByOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return ReserveResult{}, err
	}
	if len(existing) > 0 {
		ids := make([]uuid.UUID, 0, len(existing))
		for _, r := range existing {
			ids = append(ids, r.ID)
		}
		if err := tx.Commit(ctx); err != nil {
			return ReserveResult{}, apperr.Wrap(apperr.KindTransient, "reserve_commit_failed", fmt.Errorf("commit reservation: %w", err))
		}
		s.logger.Info().Str("order_id", orderID.String()).Msg("reservation already exists, short-circuiting")
		if s.metrics != nil {
			s.metrics.ReservationsTotal.WithLabelValues("already_reserved").Inc()
		}
		return ReserveResult{Outcome: OutcomeAlreadyReserved, ReservationIDs: ids}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		product, err := s.repo.GetProductForUpdate(ctx, tx, item.ProductID)
		if err != nil {
			if e, ok := apperr.As(err); ok && e == apperr.ErrNotFound {
				if s.metrics != nil {
					s.metrics.ReservationsTotal.WithLabelValues("product_not_found").Inc()
				}
				return ReserveResult{}, apperr.New(apperr.KindBusiness, "product_not_found", fmt.Sprintf("product %s not found", item.ProductID))
			}
			return ReserveResult{}, err
		}

		if product.StockQuantity < item.Quantity {
			if s.metrics != nil {
				s.metrics.ReservationsTotal.WithLabelValues("insufficient_stock").Inc()
			}
			return ReserveResult{}, &InsufficientStockError{
				ProductID: item.ProductID,
				SKU:       product.SKU,
				Requested: item.Quantity,
				Available: product.StockQuantity,
			}
		}

		res := &Reservation{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Status:    ReservationStatusReserved,
		}
		if err := s.repo.CreateReservation(ctx, tx, res); err != nil {
			return ReserveResult{}, err
		}
		if err := s.repo.UpdateStock(ctx, tx, item.ProductID, product.StockQuantity-item.Quantity); err != nil {
			return ReserveResult{}, err
		}
		ids = append(ids, res.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return ReserveResult{}, apperr.Wrap(apperr.KindTransient, "reserve_commit_failed", fmt.Errorf("commit reservation: %w", err))
	}

	s.logger.Info().Str("order_id", orderID.String()).Int("line_items", len(items)).
		Msg("stock reserved")
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues("reserved").Inc()
	}
	return ReserveResult{Outcome: OutcomeReserved, ReservationIDs: ids}, nil
}

// ReleaseStock transitions every RESERVED row for order_id to RELEASED
// and increments the corresponding product stock back, in one
// transaction. No matching rows is success (idempotent); already-
// RELEASED rows are left untouched per Invariant R2.
func (s *Service) ReleaseStock(ctx context.Context, orderID uuid.UUID) error {
	reservations, err := s.repo.GetReservationsByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(reservations) == 0 {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("no reservations to release")
		return nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, res := range reservations {
		if res.Status != ReservationStatusReserved {
			continue
		}
		product, err := s.repo.GetProductForUpdate(ctx, tx, res.ProductID)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateStock(ctx, tx, res.ProductID, product.StockQuantity+res.Quantity); err != nil {
			return err
		}
		if err := s.repo.ReleaseReservation(ctx, tx, res.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransient, "release_commit_failed", fmt.Errorf("commit release: %w", err))
	}
	s.logger.Info().Str("order_id", orderID.String()).Msg("stock released")
	return nil
}

// AddStock atomically records a StockAdjustment and bumps the
// product's stock. idempotency_key uniqueness guarantees at-most-once
// effect; a duplicate key returns the prior adjustment as AlreadyExists.
func (s *Service) AddStock(ctx context.Context, productID uuid.UUID, idempotencyKey string, quantity int, reason string, refID, notes *string) (*Adjustment, bool, error) {
	if existing, err := s.repo.GetAdjustmentByIdempotencyKey(ctx, idempotencyKey); err == nil {
		s.logger.Debug().Str("idempotency_key", idempotencyKey).Msg("adjustment already exists, returning prior result")
		return existing, true, nil
	} else if e, ok := apperr.As(err); !ok || e != apperr.ErrNotFound {
		return nil, false, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	product, err := s.repo.GetProductForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, false, err
	}

	adj := &Adjustment{
		ProductID:        productID,
		QuantityChange:   quantity,
		PreviousQuantity: product.StockQuantity,
		NewQuantity:      product.StockQuantity + quantity,
		Reason:           reason,
		IdempotencyKey:   idempotencyKey,
		ReferenceID:      refID,
		Notes:            notes,
	}
	if err := s.repo.CreateAdjustment(ctx, tx, adj); err != nil {
		return nil, false, err
	}
	if err := s.repo.UpdateStock(ctx, tx, productID, adj.NewQuantity); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, apperr.Wrap(apperr.KindTransient, "adjustment_commit_failed", fmt.Errorf("commit adjustment: %w", err))
	}

	if s.metrics != nil {
		s.metrics.StockAdjustments.WithLabelValues(reason).Inc()
	}
	s.logger.Info().Str("product_id", productID.String()).Int("quantity_change", quantity).
		Str("reason", reason).Msg("stock adjusted")
	return adj, false, nil
}

// GetAvailability returns a product's current stock for the
// GET /products/{id}/availability endpoint.
func (s *Service) GetAvailability(ctx context.Context, productID uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, productID)
}

// CreateProduct registers a new product.
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	return s.repo.CreateProduct(ctx, p)
}

// InsufficientStockError is the business-rule error for a reservation
// that cannot be satisfied, carrying the fields spec.md §6's 409
// response requires.
type InsufficientStockError struct {
	ProductID uuid.UUID
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// AsAppError lets handlers/saga map this to the shared taxonomy without
// a type switch at every call site.
func (e *InsufficientStockError) AsAppError() *apperr.Error {
	return apperr.New(apperr.KindBusiness, "insufficient_stock", e.Error())
}
