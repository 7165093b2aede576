package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// PostgresRepository implements Repository against a Postgres ledger
// table, following the teacher's PostgresOrderRepository shape: a pool
// for reads, caller-supplied tx for writes, pgconn error-code inspection
// for unique-violation detection, and version-column optimistic locking.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool:   pool,
		logger: logger.With().Str("component", "ledger_repository").Logger(),
	}
}

func (r *PostgresRepository) Create(ctx context.Context, tx pgx.Tx, l *OrderLedger, items []Item) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.Version = 1

	query := `
		INSERT INTO order_ledgers (
			id, client_request_id, user_id, email, status, total_amount_cents,
			currency, payment_authorization_id, order_id, retry_count,
			next_retry_at, pre_compensation_status, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := tx.Exec(ctx, query,
		l.ID, l.ClientRequestID, l.UserID, l.Email, l.Status, l.TotalAmountCents,
		l.Currency, l.PaymentAuthorizationID, l.OrderID, l.RetryCount,
		l.NextRetryAt, l.PreCompensationStatus, l.CreatedAt, l.UpdatedAt, l.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Debug().Str("client_request_id", l.ClientRequestID).
				Msg("ledger already exists for client_request_id")
			return apperr.New(apperr.KindDuplicate, "duplicate_request", "ledger already exists for this idempotency key")
		}
		r.logger.Error().Err(err).Str("client_request_id", l.ClientRequestID).
			Msg("failed to create ledger")
		return apperr.Wrap(apperr.KindTransient, "ledger_insert_failed", fmt.Errorf("create ledger: %w", err))
	}

	itemQuery := `
		INSERT INTO order_ledger_items (id, order_ledger_id, product_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].OrderLedgerID = l.ID
		if _, err := tx.Exec(ctx, itemQuery,
			items[i].ID, items[i].OrderLedgerID, items[i].ProductID,
			items[i].Quantity, items[i].UnitPriceCents,
		); err != nil {
			r.logger.Error().Err(err).Str("order_ledger_id", l.ID.String()).
				Msg("failed to insert ledger item")
			return apperr.Wrap(apperr.KindTransient, "ledger_item_insert_failed", fmt.Errorf("create ledger item: %w", err))
		}
	}

	r.logger.Info().
		Str("order_ledger_id", l.ID.String()).
		Str("client_request_id", l.ClientRequestID).
		Int64("total_amount_cents", l.TotalAmountCents).
		Msg("ledger created")
	return nil
}

func (r *PostgresRepository) GetByClientRequestID(ctx context.Context, clientRequestID string) (*OrderLedger, error) {
	query := `
		SELECT id, client_request_id, user_id, email, status, total_amount_cents,
			   currency, payment_authorization_id, order_id, retry_count,
			   next_retry_at, pre_compensation_status, created_at, updated_at, version
		FROM order_ledgers
		WHERE client_request_id = $1
	`
	return r.scan(r.pool.QueryRow(ctx, query, clientRequestID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*OrderLedger, error) {
	query := `
		SELECT id, client_request_id, user_id, email, status, total_amount_cents,
			   currency, payment_authorization_id, order_id, retry_count,
			   next_retry_at, pre_compensation_status, created_at, updated_at, version
		FROM order_ledgers
		WHERE id = $1
	`
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) GetItems(ctx context.Context, ledgerID uuid.UUID) ([]Item, error) {
	query := `
		SELECT id, order_ledger_id, product_id, quantity, unit_price_cents
		FROM order_ledger_items
		WHERE order_ledger_id = $1
	`
	rows, err := r.pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "ledger_items_query_failed", fmt.Errorf("query ledger items: %w", err))
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderLedgerID, &it.ProductID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "ledger_item_scan_failed", fmt.Errorf("scan ledger item: %w", err))
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "ledger_items_rows_error", err)
	}
	return items, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, l *OrderLedger) error {
	query := `
		UPDATE order_ledgers
		SET status = $1, payment_authorization_id = $2, order_id = $3,
		    pre_compensation_status = $4, updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
	`
	now := time.Now()
	result, err := tx.Exec(ctx, query,
		l.Status, l.PaymentAuthorizationID, l.OrderID, l.PreCompensationStatus, now, l.ID, l.Version,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_ledger_id", l.ID.String()).
			Msg("failed to update ledger status")
		return apperr.Wrap(apperr.KindTransient, "ledger_update_failed", fmt.Errorf("update ledger: %w", err))
	}
	if result.RowsAffected() == 0 {
		r.logger.Warn().Str("order_ledger_id", l.ID.String()).Int64("version", l.Version).
			Msg("optimistic lock failure on ledger update")
		return apperr.ErrOptimisticLock
	}
	l.Version++
	l.UpdatedAt = now
	r.logger.Info().
		Str("order_ledger_id", l.ID.String()).
		Str("status", string(l.Status)).
		Msg("ledger status updated")
	return nil
}

func (r *PostgresRepository) ScheduleRetry(ctx context.Context, tx pgx.Tx, l *OrderLedger) error {
	query := `
		UPDATE order_ledgers
		SET retry_count = $1, next_retry_at = $2, updated_at = $3, version = version + 1
		WHERE id = $4 AND version = $5
	`
	now := time.Now()
	result, err := tx.Exec(ctx, query, l.RetryCount, l.NextRetryAt, now, l.ID, l.Version)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "ledger_retry_schedule_failed", fmt.Errorf("schedule retry: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.ErrOptimisticLock
	}
	l.Version++
	l.UpdatedAt = now
	return nil
}

func (r *PostgresRepository) scan(row pgx.Row) (*OrderLedger, error) {
	var l OrderLedger
	err := row.Scan(
		&l.ID, &l.ClientRequestID, &l.UserID, &l.Email, &l.Status, &l.TotalAmountCents,
		&l.Currency, &l.PaymentAuthorizationID, &l.OrderID, &l.RetryCount,
		&l.NextRetryAt, &l.PreCompensationStatus, &l.CreatedAt, &l.UpdatedAt, &l.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("failed to scan ledger")
		return nil, apperr.Wrap(apperr.KindInternal, "ledger_scan_failed", fmt.Errorf("scan ledger: %w", err))
	}
	return &l, nil
}
