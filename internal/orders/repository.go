package orders

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists Order rows and their items, enforcing uniqueness
// on order_ledger_id (spec.md Invariant §3).
type Repository interface {
	// Create inserts an order and its items. Returns apperr duplicate-kind
	// error if order_ledger_id already exists.
	Create(ctx context.Context, o *Order) error

	// GetByID looks up an order by primary key. Returns apperr.ErrNotFound
	// if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetByLedgerID looks up an order by its originating ledger row, used
	// by CreateOrder's idempotency check and by the saga to resolve the
	// remote order_id from a ledger_id on retry.
	GetByLedgerID(ctx context.Context, ledgerID uuid.UUID) (*Order, error)

	// UpdateStatus transitions status under optimistic locking keyed on
	// Version. Returns apperr.ErrOptimisticLock on concurrent modification.
	UpdateStatus(ctx context.Context, o *Order) error
}
