// Package outbox implements the transactional outbox: events co-written
// with ledger state in the same DB transaction, claimed by a poller and
// handed to the saga executor at least once.
package outbox

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
)

// EventType identifies the shape of Payload.
const (
	EventTypeOrderAuthorized = "OrderAuthorized"
)

// Event is one row in the outbox table.
type Event struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte // opaque JSON blob, shape determined by EventType
	Status        Status
	RetryCount    int
	NextRetryAt   *time.Time
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// OrderAuthorizedPayload is the wire shape of an OrderAuthorized event,
// per the external interface's documented outbox payload.
type OrderAuthorizedPayload struct {
	OrderLedgerID          string `json:"order_ledger_id"`
	UserID                 string `json:"user_id"`
	Email                  string `json:"email"`
	TotalAmountCents       int64  `json:"total_amount_cents"`
	Currency               string `json:"currency"`
	PaymentAuthorizationID string `json:"payment_authorization_id"`
}
