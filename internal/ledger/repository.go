package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository persists OrderLedger rows and their line items. Create is
// the only write that also inserts items; every other mutation updates
// the ledger row in place under optimistic locking.
type Repository interface {
	// Create inserts a ledger row and its items in the caller's
	// transaction. Returns apperr duplicate-kind error if
	// client_request_id already exists.
	Create(ctx context.Context, tx pgx.Tx, l *OrderLedger, items []Item) error

	// GetByClientRequestID looks up a ledger by its idempotency key.
	// Returns apperr.ErrNotFound if absent.
	GetByClientRequestID(ctx context.Context, clientRequestID string) (*OrderLedger, error)

	// GetByID looks up a ledger by primary key.
	GetByID(ctx context.Context, id uuid.UUID) (*OrderLedger, error)

	// GetItems returns the line items for a ledger row.
	GetItems(ctx context.Context, ledgerID uuid.UUID) ([]Item, error)

	// UpdateStatus advances status (and optionally sets OrderID) under
	// optimistic locking keyed on Version. Returns apperr.ErrOptimisticLock
	// if the row was concurrently modified.
	UpdateStatus(ctx context.Context, tx pgx.Tx, l *OrderLedger) error

	// ScheduleRetry increments retry_count and sets next_retry_at,
	// leaving status unchanged.
	ScheduleRetry(ctx context.Context, tx pgx.Tx, l *OrderLedger) error
}
