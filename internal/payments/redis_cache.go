package payments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/observability"
)

// CachedRepository fronts a Repository with a Redis read-through cache
// keyed by idempotency key, grounded on msa-saga-go-practical's and
// flyingrobots-go-redis-work-queue's go-redis wiring (other_examples):
// a cache miss always falls through to Postgres, which remains sole
// source of truth for spec.md §3's Authorization invariants — Redis
// holds no authority, it only spares a duplicate retry the round trip.
type CachedRepository struct {
	inner   Repository
	rdb     *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func NewCachedRepository(inner Repository, rdb *redis.Client, ttl time.Duration, metrics *observability.Metrics, logger zerolog.Logger) *CachedRepository {
	return &CachedRepository{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.With().Str("component", "payments_cache").Logger(),
	}
}

func cacheKey(idempotencyKey string) string {
	return "orderflow:auth:idempotency:" + idempotencyKey
}

func (c *CachedRepository) Create(ctx context.Context, a *Authorization) error {
	if err := c.inner.Create(ctx, a); err != nil {
		return err
	}
	c.set(ctx, a)
	return nil
}

func (c *CachedRepository) GetByIdempotencyKey(ctx context.Context, key string) (*Authorization, error) {
	if cached, ok := c.getCached(ctx, key); ok {
		if c.metrics != nil {
			c.metrics.PaymentCacheHits.WithLabelValues("hit").Inc()
		}
		return cached, nil
	}
	if c.metrics != nil {
		c.metrics.PaymentCacheHits.WithLabelValues("miss").Inc()
	}
	a, err := c.inner.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	c.set(ctx, a)
	return a, nil
}

func (c *CachedRepository) GetByID(ctx context.Context, authorizationID string) (*Authorization, error) {
	return c.inner.GetByID(ctx, authorizationID)
}

func (c *CachedRepository) UpdateStatus(ctx context.Context, a *Authorization) error {
	if err := c.inner.UpdateStatus(ctx, a); err != nil {
		return err
	}
	c.set(ctx, a)
	if a.CaptureIdempotencyKey != "" {
		c.setAtKey(ctx, a.CaptureIdempotencyKey, a)
	}
	if a.VoidIdempotencyKey != "" {
		c.setAtKey(ctx, a.VoidIdempotencyKey, a)
	}
	return nil
}

func (c *CachedRepository) set(ctx context.Context, a *Authorization) {
	c.setAtKey(ctx, a.IdempotencyKey, a)
}

func (c *CachedRepository) setAtKey(ctx context.Context, key string, a *Authorization) {
	if key == "" {
		return
	}
	data, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(key), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to populate payment idempotency cache")
	}
}

func (c *CachedRepository) getCached(ctx context.Context, key string) (*Authorization, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("payment idempotency cache read failed, falling through to postgres")
		}
		return nil, false
	}
	var a Authorization
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, false
	}
	return &a, true
}

var _ Repository = (*CachedRepository)(nil)
