package payments

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

// PostgresRepository implements Repository against the authoritative
// authorizations table, grounded on the teacher's
// postgres_idempotency_repository.go (unique-key insert, pgconn
// violation detection, version-column update).
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool:   pool,
		logger: logger.With().Str("component", "payments_repository").Logger(),
	}
}

func (r *PostgresRepository) Create(ctx context.Context, a *Authorization) error {
	if a.AuthorizationID == "" {
		a.AuthorizationID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Version = 1
	if a.Status == "" {
		a.Status = StatusAuthorized
	}

	query := `
		INSERT INTO authorizations (
			authorization_id, user_id, amount_cents, currency, status,
			idempotency_key, capture_idempotency_key, void_idempotency_key,
			request_hash, decline_code, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		a.AuthorizationID, a.UserID, a.AmountCents, a.Currency, a.Status,
		a.IdempotencyKey, a.CaptureIdempotencyKey, a.VoidIdempotencyKey,
		a.RequestHash, a.DeclineCode, a.CreatedAt, a.UpdatedAt, a.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.KindDuplicate, "duplicate_request", "authorization already exists for this idempotency key")
		}
		r.logger.Error().Err(err).Str("idempotency_key", a.IdempotencyKey).Msg("failed to create authorization")
		return apperr.Wrap(apperr.KindTransient, "authorization_insert_failed", fmt.Errorf("create authorization: %w", err))
	}
	r.logger.Info().Str("authorization_id", a.AuthorizationID).Int64("amount_cents", a.AmountCents).
		Msg("authorization created")
	return nil
}

func (r *PostgresRepository) GetByIdempotencyKey(ctx context.Context, key string) (*Authorization, error) {
	query := `
		SELECT authorization_id, user_id, amount_cents, currency, status,
		       idempotency_key, capture_idempotency_key, void_idempotency_key,
		       request_hash, decline_code, created_at, updated_at, version
		FROM authorizations
		WHERE idempotency_key = $1
	`
	return r.scan(r.pool.QueryRow(ctx, query, key))
}

func (r *PostgresRepository) GetByID(ctx context.Context, authorizationID string) (*Authorization, error) {
	query := `
		SELECT authorization_id, user_id, amount_cents, currency, status,
		       idempotency_key, capture_idempotency_key, void_idempotency_key,
		       request_hash, decline_code, created_at, updated_at, version
		FROM authorizations
		WHERE authorization_id = $1
	`
	return r.scan(r.pool.QueryRow(ctx, query, authorizationID))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, a *Authorization) error {
	query := `
		UPDATE authorizations
		SET status = $1, capture_idempotency_key = $2, void_idempotency_key = $3,
		    updated_at = $4, version = version + 1
		WHERE authorization_id = $5 AND version = $6
	`
	now := time.Now()
	result, err := r.pool.Exec(ctx, query, a.Status, a.CaptureIdempotencyKey, a.VoidIdempotencyKey,
		now, a.AuthorizationID, a.Version)
	if err != nil {
		r.logger.Error().Err(err).Str("authorization_id", a.AuthorizationID).Msg("failed to update authorization status")
		return apperr.Wrap(apperr.KindTransient, "authorization_update_failed", fmt.Errorf("update authorization: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.ErrOptimisticLock
	}
	a.Version++
	a.UpdatedAt = now
	r.logger.Info().Str("authorization_id", a.AuthorizationID).Str("status", string(a.Status)).
		Msg("authorization status updated")
	return nil
}

func (r *PostgresRepository) scan(row pgx.Row) (*Authorization, error) {
	var a Authorization
	err := row.Scan(&a.AuthorizationID, &a.UserID, &a.AmountCents, &a.Currency, &a.Status,
		&a.IdempotencyKey, &a.CaptureIdempotencyKey, &a.VoidIdempotencyKey,
		&a.RequestHash, &a.DeclineCode, &a.CreatedAt, &a.UpdatedAt, &a.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Wrap(apperr.KindInternal, "authorization_scan_failed", fmt.Errorf("scan authorization: %w", err))
	}
	return &a, nil
}
