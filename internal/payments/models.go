// Package payments implements the Payment Gateway Adapter: a mock
// gateway behind the same authorize/capture/void state machine a real
// processor would expose, fronted by a Postgres-backed authorizations
// table with a Redis read-through cache.
package payments

import "time"

type Status string

const (
	StatusAuthorized Status = "AUTHORIZED"
	StatusCaptured   Status = "CAPTURED"
	StatusVoided     Status = "VOIDED"
)

// Authorization is one payment hold/capture/void lifecycle, keyed by
// its own idempotency key per mutation per spec.md §3.
type Authorization struct {
	AuthorizationID string
	UserID          string
	AmountCents     int64
	Currency        string
	Status          Status
	IdempotencyKey  string
	CaptureIdempotencyKey string
	VoidIdempotencyKey    string
	RequestHash     string
	DeclineCode     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

// AuthorizeRequest is the input to Authorize.
type AuthorizeRequest struct {
	UserID         string
	AmountCents    int64
	Currency       string
	Token          string
	IdempotencyKey string
}

// AuthorizeResult is returned on a successful authorization.
type AuthorizeResult struct {
	AuthorizationID string
}

// CaptureRequest is the input to Capture — every mutation carries its
// own idempotency key distinct from the authorization's original one,
// per spec.md §3 ("each mutation keyed by its own idempotency key").
type CaptureRequest struct {
	AuthorizationID string
	IdempotencyKey  string
}

// VoidRequest is the input to Void.
type VoidRequest struct {
	AuthorizationID string
	IdempotencyKey  string
}
