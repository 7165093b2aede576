package payments

import "context"

// Repository persists Authorization rows, keyed uniquely per mutation's
// idempotency key so a replayed authorize/capture/void returns the
// stored prior result rather than re-executing.
type Repository interface {
	Create(ctx context.Context, a *Authorization) error
	GetByIdempotencyKey(ctx context.Context, key string) (*Authorization, error)
	GetByID(ctx context.Context, authorizationID string) (*Authorization, error)
	UpdateStatus(ctx context.Context, a *Authorization) error
}
