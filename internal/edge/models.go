// Package edge implements the Edge Order Service (C6): the public
// POST /orders entrypoint that authorises payment and writes the
// ledger, its items, and the OrderAuthorized outbox event atomically.
package edge

import "github.com/google/uuid"

// Item is one requested line of a CreateOrder call. Unit prices are
// supplied by the caller; this service never looks them up (spec.md
// §4.1 step 2).
type Item struct {
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// CreateRequest is the validated input to CreateOrder. Currency is
// pass-through (spec.md §4.1 numeric semantics) — this service never
// converts or defaults it beyond what the caller supplies.
type CreateRequest struct {
	IdempotencyKey string
	UserID         uuid.UUID
	Email          string
	Currency       string
	Items          []Item
	PaymentMethod  string
	PaymentToken   string
}

// CreateResult is the outcome of an accepted CreateOrder call: the new
// ledger row's id and its status.
type CreateResult struct {
	OrderLedgerID uuid.UUID
	Status        string
}
