// Package ledger owns the Edge-authoritative OrderLedger/OrderLedgerItem
// records: the single source of truth for whether a customer's order
// submission has been accepted, authorized, and driven to completion.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Status is the ledger's position in the saga state graph.
type Status string

const (
	StatusAwaitingAuthorization Status = "AWAITING_AUTHORIZATION"
	StatusAuthorized            Status = "AUTHORIZED"
	StatusAuthorizationFailed   Status = "AUTHORIZATION_FAILED"
	StatusOrderCreated          Status = "ORDER_CREATED"
	StatusInventoryReserved     Status = "INVENTORY_RESERVED"
	StatusPaymentCaptured       Status = "PAYMENT_CAPTURED"
	StatusCompleted             Status = "COMPLETED"
	StatusCompensating          Status = "COMPENSATING"
	StatusFailed                Status = "FAILED"
)

// IsTerminal reports whether the ledger will never transition again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// HasAuthorization reports whether payment_authorization_id must be
// non-null for a ledger in this status, per Invariant L3.
func (s Status) HasAuthorization() bool {
	switch s {
	case StatusAuthorized, StatusOrderCreated, StatusInventoryReserved,
		StatusPaymentCaptured, StatusCompleted, StatusCompensating, StatusFailed:
		return true
	default:
		return false
	}
}

// OrderLedger is the Edge service's authoritative record of one
// customer-initiated order attempt, keyed uniquely by ClientRequestID.
type OrderLedger struct {
	ID                     uuid.UUID
	ClientRequestID        string
	UserID                 uuid.UUID
	Email                  string
	Status                 Status
	TotalAmountCents       int64
	Currency               string
	PaymentAuthorizationID *string
	OrderID                *uuid.UUID
	RetryCount             int
	NextRetryAt            *time.Time
	// PreCompensationStatus records which step last succeeded before a
	// transition into StatusCompensating, so a crash between entering
	// COMPENSATING and finishing compensation can resume with the same
	// applicability decisions the Compensation Executor made the first
	// time (spec.md §4.5's last_successful_status input). Nil unless
	// Status is StatusCompensating or StatusFailed-via-compensation.
	PreCompensationStatus *Status
	CreatedAt              time.Time
	UpdatedAt              time.Time
	Version                int64
}

// Item is one product line of an OrderLedger, written in the same
// transaction as its parent.
type Item struct {
	ID            uuid.UUID
	OrderLedgerID uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	UnitPriceCents int64
}

// Total returns Σ quantity × unit_price_cents for a set of items, with no
// rounding — the exact figure the ledger's TotalAmountCents must match.
func Total(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	return total
}
