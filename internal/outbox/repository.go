package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository persists outbox events and implements the claim contract
// that guarantees Invariant O2 (a claimed row observed by at most one
// poller at any instant) under concurrent pollers.
type Repository interface {
	// Create inserts an event within the caller's transaction — always
	// called alongside a ledger status write, never standalone.
	Create(ctx context.Context, tx pgx.Tx, e *Event) error

	// ClaimDue selects up to limit PENDING rows whose next_retry_at is
	// null or past, locking them against other claimants, and leases
	// them for lease by pushing next_retry_at out to now()+lease before
	// the claiming transaction commits. This is what keeps Invariant O2
	// (a claimed row observed by at most one poller at any instant)
	// true past the claiming transaction's own lifetime: a second
	// ClaimDue call's WHERE clause excludes a leased-but-unfinished row
	// until the lease expires, at which point a crashed worker's row
	// becomes re-claimable again (redelivery, not loss). Implementations
	// must use SELECT ... FOR UPDATE SKIP LOCKED (or equivalent) in a
	// single transaction that commits before returning.
	ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]*Event, error)

	// MarkProcessed transitions an event to PROCESSED.
	MarkProcessed(ctx context.Context, id string) error

	// ScheduleRetry increments retry_count and sets next_retry_at,
	// leaving status PENDING.
	ScheduleRetry(ctx context.Context, id string, nextRetryAt time.Time) error

	// MarkFailed transitions an event to terminal FAILED (retries
	// exhausted or a non-retryable saga outcome already finalized the
	// ledger via compensation).
	MarkFailed(ctx context.Context, id string) error

	// CountPending reports the current PENDING backlog, for the
	// OutboxBacklog gauge.
	CountPending(ctx context.Context) (int, error)
}
