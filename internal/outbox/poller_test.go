package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/orderflow/internal/mocks"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

func newTestPoller(t *testing.T) (*Poller, *mocks.MockOutboxRepository, *mocks.MockHandler) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOutboxRepository(ctrl)
	handler := mocks.NewMockHandler(ctrl)
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	p := NewPoller(repo, handler, nil, nil, metrics, zerolog.Nop(), time.Second, 30*time.Second, 4)
	return p, repo, handler
}

func TestPoller_PollOnce_NoDueEventsIsANoOp(t *testing.T) {
	p, repo, _ := newTestPoller(t)
	ctx := context.Background()

	repo.EXPECT().ClaimDue(ctx, p.batchSize, p.claimLease).Return(nil, nil)

	p.pollOnce(ctx, make(chan struct{}, p.concurrency))
}

func TestPoller_Process_CompletedMarksProcessed(t *testing.T) {
	p, repo, handler := newTestPoller(t)
	ctx := context.Background()
	e := &Event{ID: "evt-1", EventType: EventTypeOrderAuthorized}

	handler.EXPECT().Handle(ctx, e).Return(Result{Outcome: OutcomeCompleted}, nil)
	repo.EXPECT().MarkProcessed(ctx, "evt-1").Return(nil)

	p.process(ctx, e)
}

func TestPoller_Process_CompensatedAlsoMarksProcessed(t *testing.T) {
	p, repo, handler := newTestPoller(t)
	ctx := context.Background()
	e := &Event{ID: "evt-2", EventType: EventTypeOrderAuthorized}

	handler.EXPECT().Handle(ctx, e).Return(Result{Outcome: OutcomeCompensated}, nil)
	repo.EXPECT().MarkProcessed(ctx, "evt-2").Return(nil)

	p.process(ctx, e)
}

func TestPoller_Process_RequiresRetrySchedulesRetry(t *testing.T) {
	p, repo, handler := newTestPoller(t)
	ctx := context.Background()
	e := &Event{ID: "evt-3", EventType: EventTypeOrderAuthorized}
	nextRetry := time.Now().Add(time.Minute)

	handler.EXPECT().Handle(ctx, e).Return(Result{Outcome: OutcomeRequiresRetry, NextRetryAt: nextRetry}, nil)
	repo.EXPECT().ScheduleRetry(ctx, "evt-3", nextRetry).Return(nil)

	p.process(ctx, e)
}

func TestPoller_Process_HandlerErrorLeavesEventClaimedForRetry(t *testing.T) {
	p, _, handler := newTestPoller(t)
	ctx := context.Background()
	e := &Event{ID: "evt-4", EventType: EventTypeOrderAuthorized}

	handler.EXPECT().Handle(ctx, e).Return(Result{}, assertError{})

	// No MarkProcessed/ScheduleRetry call is expected: a handler error
	// (as opposed to a returned Result) leaves the event claimed, to be
	// picked up again once the claim's lease expires.
	p.process(ctx, e)
}

type assertError struct{}

func (assertError) Error() string { return "handler failed" }
