package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// PostgresRepository implements Repository, grounded on the teacher's
// PostgresOutboxRepository (create-in-tx, scan, retry bookkeeping),
// extended with the FOR UPDATE SKIP LOCKED claim contract spec.md §4.3
// requires instead of the teacher's plain WHERE-scan.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool:   pool,
		logger: logger.With().Str("component", "outbox_repository").Logger(),
	}
}

func (r *PostgresRepository) Create(ctx context.Context, tx pgx.Tx, e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()
	if e.Status == "" {
		e.Status = StatusPending
	}

	query := `
		INSERT INTO outbox_events (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, retry_count, next_retry_at, created_at, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.Exec(ctx, query,
		e.ID, e.AggregateType, e.AggregateID, e.EventType, e.Payload,
		e.Status, e.RetryCount, e.NextRetryAt, e.CreatedAt, e.ProcessedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("event_type", e.EventType).
			Str("aggregate_id", e.AggregateID).Msg("failed to create outbox event")
		return apperr.Wrap(apperr.KindTransient, "outbox_insert_failed", fmt.Errorf("create outbox event: %w", err))
	}

	r.logger.Debug().
		Str("event_id", e.ID).
		Str("event_type", e.EventType).
		Str("aggregate_id", e.AggregateID).
		Msg("outbox event created")
	return nil
}

// ClaimDue implements Invariant O2 via a single atomic statement: select
// candidate rows ordered by created_at, locking them FOR UPDATE SKIP
// LOCKED so a competing poller's claim simply skips them rather than
// blocking, then lease them by pushing next_retry_at to now()+lease
// before the claiming transaction commits. The lease is what keeps a
// claimed row out of the next poll's WHERE clause for the rest of its
// processing, rather than only for the instant this transaction holds
// its row locks — without it, a saga run that outlives one poll
// interval (easily possible: several HTTP steps at several seconds
// each, against a multi-second poll interval) gets claimed a second
// time and processed concurrently with the first goroutine. A worker
// that crashes mid-processing simply leaves the row re-claimable once
// its lease expires, which is the safe failure mode the spec requires
// (re-delivery, not loss).
func (r *PostgresRepository) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]*Event, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "outbox_claim_begin_failed", fmt.Errorf("begin claim tx: %w", err))
	}
	defer tx.Rollback(ctx)

	query := `
		WITH claimed AS (
			SELECT id
			FROM outbox_events
			WHERE status = $1 AND (next_retry_at IS NULL OR next_retry_at <= NOW())
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox_events
		SET next_retry_at = $3
		WHERE id IN (SELECT id FROM claimed)
		RETURNING id, aggregate_type, aggregate_id, event_type, payload,
		          status, retry_count, next_retry_at, created_at, processed_at
	`
	rows, err := tx.Query(ctx, query, StatusPending, limit, time.Now().Add(lease))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "outbox_claim_query_failed", fmt.Errorf("claim due events: %w", err))
	}

	var events []*Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload,
			&e.Status, &e.RetryCount, &e.NextRetryAt, &e.CreatedAt, &e.ProcessedAt,
		); err != nil {
			rows.Close()
			return nil, apperr.Wrap(apperr.KindInternal, "outbox_claim_scan_failed", fmt.Errorf("scan outbox event: %w", err))
		}
		events = append(events, &e)
	}
	rowsErr := rows.Err()
	rows.Close()
	if rowsErr != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "outbox_claim_rows_error", rowsErr)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "outbox_claim_commit_failed", fmt.Errorf("commit claim tx: %w", err))
	}

	if len(events) > 0 {
		r.logger.Debug().Int("count", len(events)).Msg("claimed due outbox events")
	}
	return events, nil
}

func (r *PostgresRepository) MarkProcessed(ctx context.Context, id string) error {
	query := `UPDATE outbox_events SET status = $1, processed_at = NOW() WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, StatusProcessed, id)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "outbox_mark_processed_failed", fmt.Errorf("mark processed: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ScheduleRetry(ctx context.Context, id string, nextRetryAt time.Time) error {
	query := `UPDATE outbox_events SET retry_count = retry_count + 1, next_retry_at = $1 WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, nextRetryAt, id)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "outbox_schedule_retry_failed", fmt.Errorf("schedule retry: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id string) error {
	query := `UPDATE outbox_events SET status = $1, processed_at = NOW() WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, StatusFailed, id)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "outbox_mark_failed_failed", fmt.Errorf("mark failed: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM outbox_events WHERE status = $1`
	if err := r.pool.QueryRow(ctx, query, StatusPending).Scan(&count); err != nil {
		return 0, apperr.Wrap(apperr.KindTransient, "outbox_count_pending_failed", fmt.Errorf("count pending: %w", err))
	}
	return count, nil
}
