package payments

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cypherlabdev/orderflow/internal/apperr"
)

// Gateway is the interface the service layer depends on. A real
// processor integration would satisfy the same shape; MockGateway is
// the only implementation here, by explicit design (spec.md §1 marks
// the mock's decline/latency heuristics out of scope beyond their
// observable effect).
type Gateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResult, error)
	Capture(ctx context.Context, authorizationID string) error
	Void(ctx context.Context, authorizationID string) error
}

// MockGateway simulates a payment processor's latency and decline rate.
// Not a modeled subsystem — a thin, clearly-labeled test double, per
// DESIGN.md's resolution of spec.md §1's carve-out.
type MockGateway struct {
	latency     time.Duration
	failureRate float64
	rng         *rand.Rand
}

func NewMockGateway(latency time.Duration, failureRate float64) *MockGateway {
	return &MockGateway{
		latency:     latency,
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(1)),
	}
}

func (g *MockGateway) Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResult, error) {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return AuthorizeResult{}, apperr.Wrap(apperr.KindTransient, "gateway_timeout", ctx.Err())
	}

	if strings.Contains(req.Token, "tok_decline") {
		code := "card_declined"
		if strings.Contains(req.Token, "insufficient") {
			code = "insufficient_funds"
		}
		return AuthorizeResult{}, apperr.New(apperr.KindBusiness, code, "payment declined")
	}

	if g.failureRate > 0 && g.rng.Float64() < g.failureRate {
		return AuthorizeResult{}, apperr.New(apperr.KindTransient, "gateway_error", "gateway unavailable")
	}

	return AuthorizeResult{AuthorizationID: uuid.NewString()}, nil
}

// Capture and Void are no-ops on the mock gateway beyond the simulated
// latency: the remote processor side of the state machine is trivial
// here by design (spec.md §1 carve-out); the authoritative state
// machine (AUTHORIZED->CAPTURED/VOIDED, AlreadyCaptured/AlreadyVoided)
// lives in Service/Repository against the authorizations table, not in
// the gateway.
func (g *MockGateway) Capture(ctx context.Context, authorizationID string) error {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return apperr.Wrap(apperr.KindTransient, "gateway_timeout", ctx.Err())
	}
	if g.failureRate > 0 && g.rng.Float64() < g.failureRate {
		return apperr.New(apperr.KindTransient, "gateway_error", "gateway unavailable")
	}
	return nil
}

func (g *MockGateway) Void(ctx context.Context, authorizationID string) error {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return apperr.Wrap(apperr.KindTransient, "gateway_timeout", ctx.Err())
	}
	if g.failureRate > 0 && g.rng.Float64() < g.failureRate {
		return apperr.New(apperr.KindTransient, "gateway_error", "gateway unavailable")
	}
	return nil
}
