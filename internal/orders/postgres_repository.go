package orders

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

// PostgresRepository implements Repository, grounded on the teacher's
// PostgresOrderRepository: pool for reads, tx-per-create, pgconn
// unique-violation detection, version-column optimistic locking on
// UpdateStatus (mirrors teacher's UpdateMatchedAmounts RowsAffected()==0
// check).
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool:   pool,
		logger: logger.With().Str("component", "orders_repository").Logger(),
	}
}

func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "orders_tx_begin_failed", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx)

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Version = 1
	if o.Status == "" {
		o.Status = StatusCreated
	}

	query := `
		INSERT INTO orders (
			id, order_ledger_id, user_id, status, total_amount_cents,
			currency, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query, o.ID, o.OrderLedgerID, o.UserID, o.Status,
		o.TotalAmountCents, o.Currency, o.CreatedAt, o.UpdatedAt, o.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.KindDuplicate, "duplicate_request", "order already exists for this ledger id")
		}
		r.logger.Error().Err(err).Str("order_ledger_id", o.OrderLedgerID.String()).Msg("failed to create order")
		return apperr.Wrap(apperr.KindTransient, "order_insert_failed", fmt.Errorf("create order: %w", err))
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
		if _, err := tx.Exec(ctx, itemQuery, o.Items[i].ID, o.Items[i].OrderID,
			o.Items[i].ProductID, o.Items[i].Quantity, o.Items[i].UnitPriceCents); err != nil {
			r.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to insert order item")
			return apperr.Wrap(apperr.KindTransient, "order_item_insert_failed", fmt.Errorf("create order item: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransient, "orders_commit_failed", fmt.Errorf("commit order: %w", err))
	}

	r.logger.Info().Str("order_id", o.ID.String()).Str("order_ledger_id", o.OrderLedgerID.String()).
		Msg("order created")
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, order_ledger_id, user_id, status, total_amount_cents,
		       currency, created_at, updated_at, version
		FROM orders
		WHERE id = $1
	`
	o, err := r.scan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PostgresRepository) GetByLedgerID(ctx context.Context, ledgerID uuid.UUID) (*Order, error) {
	query := `
		SELECT id, order_ledger_id, user_id, status, total_amount_cents,
		       currency, created_at, updated_at, version
		FROM orders
		WHERE order_ledger_id = $1
	`
	o, err := r.scan(r.pool.QueryRow(ctx, query, ledgerID))
	if err != nil {
		return nil, err
	}
	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PostgresRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]Item, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "order_items_query_failed", fmt.Errorf("query order items: %w", err))
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "order_item_scan_failed", fmt.Errorf("scan order item: %w", err))
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "order_items_rows_error", err)
	}
	return items, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, o *Order) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2, version = version + 1
		WHERE id = $3 AND version = $4
	`
	now := time.Now()
	result, err := r.pool.Exec(ctx, query, o.Status, now, o.ID, o.Version)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to update order status")
		return apperr.Wrap(apperr.KindTransient, "order_update_failed", fmt.Errorf("update order: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.ErrOptimisticLock
	}
	o.Version++
	o.UpdatedAt = now
	r.logger.Info().Str("order_id", o.ID.String()).Str("status", string(o.Status)).Msg("order status updated")
	return nil
}

func (r *PostgresRepository) scan(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderLedgerID, &o.UserID, &o.Status,
		&o.TotalAmountCents, &o.Currency, &o.CreatedAt, &o.UpdatedAt, &o.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Wrap(apperr.KindInternal, "order_scan_failed", fmt.Errorf("scan order: %w", err))
	}
	return &o, nil
}
