package inventory

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
// PostgresOrderRepository.GetByIDForUpdate (FOR UPDATE pessimistic
// lock) and unique-violation detection via pgconn error codes,
// re-targeted at product/reservation/adjustment rows.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool:   pool,
		logger: logger.With().Str("component", "inventory_repository").Logger(),
	}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "inventory_tx_begin_failed", fmt.Errorf("begin tx: %w", err))
	}
	return tx, nil
}

func (r *PostgresRepository) GetProductForUpdate(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*Product, error) {
	query := `
		SELECT id, sku, name, stock_quantity, created_at, updated_at, version
		FROM products
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanProduct(tx.QueryRow(ctx, query, productID))
}

func (r *PostgresRepository) GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error) {
	query := `
		SELECT id, sku, name, stock_quantity, created_at, updated_at, version
		FROM products
		WHERE id = $1
	`
	return r.scanProduct(r.pool.QueryRow(ctx, query, productID))
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1

	query := `
		INSERT INTO products (id, sku, name, stock_quantity, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query, p.ID, p.SKU, p.Name, p.StockQuantity, p.CreatedAt, p.UpdatedAt, p.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.KindDuplicate, "duplicate_sku", "product with this sku already exists")
		}
		r.logger.Error().Err(err).Str("sku", p.SKU).Msg("failed to create product")
		return apperr.Wrap(apperr.KindTransient, "product_insert_failed", fmt.Errorf("create product: %w", err))
	}
	r.logger.Info().Str("product_id", p.ID.String()).Str("sku", p.SKU).
		Int("stock_quantity", p.StockQuantity).Msg("product created")
	return nil
}

func (r *PostgresRepository) UpdateStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, newQuantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = $1, updated_at = $2, version = version + 1
		WHERE id = $3
	`
	_, err := tx.Exec(ctx, query, newQuantity, time.Now(), productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to update stock")
		return apperr.Wrap(apperr.KindTransient, "stock_update_failed", fmt.Errorf("update stock: %w", err))
	}
	return nil
}

func (r *PostgresRepository) GetReservationsByOrder(ctx context.Context, orderID uuid.UUID) ([]*Reservation, error) {
	query := `
		SELECT id, order_id, product_id, quantity, status, created_at, updated_at
		FROM reservations
		WHERE order_id = $1
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	return r.scanReservations(rows, err)
}

func (r *PostgresRepository) GetReservationsByOrderForUpdate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*Reservation, error) {
	query := `
		SELECT id, order_id, product_id, quantity, status, created_at, updated_at
		FROM reservations
		WHERE order_id = $1
		FOR UPDATE
	`
	rows, err := tx.Query(ctx, query, orderID)
	return r.scanReservations(rows, err)
}

func (r *PostgresRepository) scanReservations(rows pgx.Rows, err error) ([]*Reservation, error) {
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "reservations_query_failed", fmt.Errorf("query reservations: %w", err))
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(&res.ID, &res.OrderID, &res.ProductID, &res.Quantity,
			&res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "reservation_scan_failed", fmt.Errorf("scan reservation: %w", err))
		}
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "reservations_rows_error", err)
	}
	return out, nil
}

// LockOrder takes a transaction-scoped advisory lock on order_id so two
// concurrent ReserveStock calls for the same order serialize instead of
// both passing the existence check and both inserting. hashtextextended
// folds the UUID's text form into the bigint pg_advisory_xact_lock
// needs.
func (r *PostgresRepository) LockOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, orderID.String())
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "order_lock_failed", fmt.Errorf("lock order: %w", err))
	}
	return nil
}

func (r *PostgresRepository) CreateReservation(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now
	if res.Status == "" {
		res.Status = ReservationStatusReserved
	}

	query := `
		INSERT INTO reservations (id, order_id, product_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.Exec(ctx, query, res.ID, res.OrderID, res.ProductID, res.Quantity, res.Status, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.KindDuplicate, "already_reserved", "reservation already exists for this order and product")
		}
		r.logger.Error().Err(err).Str("order_id", res.OrderID.String()).
			Str("product_id", res.ProductID.String()).Msg("failed to create reservation")
		return apperr.Wrap(apperr.KindTransient, "reservation_insert_failed", fmt.Errorf("create reservation: %w", err))
	}
	return nil
}

func (r *PostgresRepository) ReleaseReservation(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	_, err := tx.Exec(ctx, query, ReservationStatusReleased, time.Now(), reservationID, ReservationStatusReserved)
	if err != nil {
		r.logger.Error().Err(err).Str("reservation_id", reservationID.String()).Msg("failed to release reservation")
		return apperr.Wrap(apperr.KindTransient, "reservation_release_failed", fmt.Errorf("release reservation: %w", err))
	}
	// RowsAffected()==0 means it was already RELEASED (or missing); both
	// are success per Invariant R2 — not checked here by design.
	return nil
}

func (r *PostgresRepository) CreateAdjustment(ctx context.Context, tx pgx.Tx, a *Adjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO stock_adjustments (
			id, product_id, quantity_change, previous_quantity, new_quantity,
			reason, idempotency_key, reference_id, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.Exec(ctx, query,
		a.ID, a.ProductID, a.QuantityChange, a.PreviousQuantity, a.NewQuantity,
		a.Reason, a.IdempotencyKey, a.ReferenceID, a.Notes, a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.KindDuplicate, "duplicate_request", "adjustment with this idempotency key already exists")
		}
		r.logger.Error().Err(err).Str("product_id", a.ProductID.String()).Msg("failed to create adjustment")
		return apperr.Wrap(apperr.KindTransient, "adjustment_insert_failed", fmt.Errorf("create adjustment: %w", err))
	}
	return nil
}

func (r *PostgresRepository) GetAdjustmentByIdempotencyKey(ctx context.Context, key string) (*Adjustment, error) {
	query := `
		SELECT id, product_id, quantity_change, previous_quantity, new_quantity,
		       reason, idempotency_key, reference_id, notes, created_at
		FROM stock_adjustments
		WHERE idempotency_key = $1
	`
	row := r.pool.QueryRow(ctx, query, key)
	var a Adjustment
	err := row.Scan(&a.ID, &a.ProductID, &a.QuantityChange, &a.PreviousQuantity, &a.NewQuantity,
		&a.Reason, &a.IdempotencyKey, &a.ReferenceID, &a.Notes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Wrap(apperr.KindInternal, "adjustment_scan_failed", fmt.Errorf("scan adjustment: %w", err))
	}
	return &a, nil
}

func (r *PostgresRepository) scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("failed to scan product")
		return nil, apperr.Wrap(apperr.KindInternal, "product_scan_failed", fmt.Errorf("scan product: %w", err))
	}
	return &p, nil
}
