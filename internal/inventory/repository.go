package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository persists products, reservations, and stock adjustments.
// Every write that must be atomic against a product's stock row is
// given the caller's transaction explicitly; the service layer owns
// transaction boundaries (begin/commit/rollback), following the
// teacher's GetByIDForUpdate split between pool reads and tx writes.
type Repository interface {
	// GetProductForUpdate locks the product row FOR UPDATE within tx,
	// the pessimistic-lock pattern spec.md §4.6 requires for the
	// reserve-stock transaction. Returns apperr.ErrNotFound if absent.
	GetProductForUpdate(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*Product, error)

	// GetProduct reads a product without locking, for availability checks.
	GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error)

	// CreateProduct inserts a new product row.
	CreateProduct(ctx context.Context, p *Product) error

	// UpdateStock sets a product's stock_quantity within tx, used by
	// both the reservation path (decrement) and release path (increment).
	UpdateStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, newQuantity int) error

	// GetReservationsByOrder returns all reservation rows (any status)
	// for an order_id, used to drive ReleaseStock.
	GetReservationsByOrder(ctx context.Context, orderID uuid.UUID) ([]*Reservation, error)

	// GetReservationsByOrderForUpdate is GetReservationsByOrder's
	// tx-scoped counterpart, used by ReserveStock so the existence
	// check and the insert-or-short-circuit decision it drives happen
	// inside the same transaction as the reservation insert and stock
	// decrement, per the single-transaction contract of spec.md §4.6.
	GetReservationsByOrderForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*Reservation, error)

	// LockOrder takes a transaction-scoped advisory lock keyed on
	// order_id, serializing concurrent ReserveStock calls for the same
	// order so the existence check and the insert they gate can't race.
	// The lock is released automatically on commit or rollback.
	LockOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error

	// CreateReservation inserts a RESERVED row within tx. Returns an
	// apperr.KindDuplicate error if a concurrent transaction already
	// reserved this order_id/product_id pair, so the caller can treat it
	// as the idempotent AlreadyReserved outcome rather than a failure.
	CreateReservation(ctx context.Context, tx pgx.Tx, r *Reservation) error

	// ReleaseReservation transitions a reservation to RELEASED within
	// tx. Idempotent: releasing an already-RELEASED row is a no-op
	// that returns nil without decrementing rows affected.
	ReleaseReservation(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) error

	// CreateAdjustment inserts an Adjustment row. Returns apperr
	// duplicate-kind error if idempotency_key already exists.
	CreateAdjustment(ctx context.Context, tx pgx.Tx, a *Adjustment) error

	// GetAdjustmentByIdempotencyKey looks up a prior adjustment for the
	// AlreadyExists path of AddStock.
	GetAdjustmentByIdempotencyKey(ctx context.Context, key string) (*Adjustment, error)

	// BeginTx starts a transaction for the service layer to drive.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}
