package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/orderflow/internal/observability"
)

// Poller claims due events and hands each to a Handler, waking on
// whichever fires first between a fixed-interval ticker and a pgx
// LISTEN/NOTIFY channel — the concrete Go reading of spec.md §4.3's
// "fixed-interval polling combined with a change-notification channel
// delivered over an unbounded queue", grounded on the teacher's
// OutboxPublisher.Start ticker loop, extended with the notify listener.
type Poller struct {
	repo         Repository
	handler      Handler
	pool         *pgxpool.Pool
	analytics    *AnalyticsPublisher
	metrics      *observability.Metrics
	logger       zerolog.Logger
	pollInterval time.Duration
	claimLease   time.Duration
	batchSize    int
	concurrency  int
	wake         chan struct{}
}

const notifyChannel = "orderflow_outbox"

func NewPoller(
	repo Repository,
	handler Handler,
	pool *pgxpool.Pool,
	analytics *AnalyticsPublisher,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	pollInterval time.Duration,
	claimLease time.Duration,
	concurrency int,
) *Poller {
	return &Poller{
		repo:         repo,
		handler:      handler,
		pool:         pool,
		analytics:    analytics,
		metrics:      metrics,
		logger:       logger.With().Str("component", "outbox_poller").Logger(),
		pollInterval: pollInterval,
		claimLease:   claimLease,
		batchSize:    100,
		concurrency:  concurrency,
		wake:         make(chan struct{}, 1),
	}
}

// Run starts the poll loop and the notification listener; it blocks
// until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Dur("poll_interval", p.pollInterval).Msg("outbox poller started")

	go p.listenForNotifications(ctx)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, p.concurrency)

	for {
		select {
		case <-ticker.C:
			p.pollOnce(ctx, sem)
		case <-p.wake:
			p.pollOnce(ctx, sem)
		case <-ctx.Done():
			p.logger.Info().Msg("outbox poller stopping")
			return
		}
	}
}

// listenForNotifications holds a dedicated connection and issues
// LISTEN, relaying each notification onto the wake channel. The channel
// holds at most one pending wake: a notification that arrives while a
// wake is already pending is dropped, as that wake already triggers the
// next poll.
func (p *Poller) listenForNotifications(ctx context.Context) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to acquire listener connection")
		return
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		p.logger.Error().Err(err).Msg("failed to LISTEN on outbox channel")
		return
	}

	for {
		_, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn().Err(err).Msg("notification wait failed, retrying")
			time.Sleep(time.Second)
			continue
		}
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, sem chan struct{}) {
	events, err := p.repo.ClaimDue(ctx, p.batchSize, p.claimLease)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to claim due events")
		return
	}
	if len(events) == 0 {
		return
	}

	for _, e := range events {
		sem <- struct{}{}
		go func(e *Event) {
			defer func() { <-sem }()
			p.process(ctx, e)
		}(e)
	}
}

func (p *Poller) process(ctx context.Context, e *Event) {
	if p.metrics != nil {
		p.metrics.OutboxEventsClaimed.WithLabelValues(e.EventType).Inc()
	}

	result, err := p.handler.Handle(ctx, e)
	if err != nil {
		p.logger.Error().Err(err).Str("event_id", e.ID).Msg("handler returned error")
		return
	}

	switch result.Outcome {
	case OutcomeCompleted, OutcomeFailed, OutcomeCompensated:
		if err := p.repo.MarkProcessed(ctx, e.ID); err != nil {
			p.logger.Error().Err(err).Str("event_id", e.ID).Msg("failed to mark event processed")
			return
		}
		if p.metrics != nil {
			p.metrics.OutboxEventsPublished.WithLabelValues(e.EventType).Inc()
		}
		if p.analytics != nil {
			p.analytics.Publish(ctx, e)
		}
	case OutcomeRequiresRetry:
		if err := p.repo.ScheduleRetry(ctx, e.ID, result.NextRetryAt); err != nil {
			p.logger.Error().Err(err).Str("event_id", e.ID).Msg("failed to schedule retry")
		}
	}
}
