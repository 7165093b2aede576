// Package orders implements the Orders service (C4): order lifecycle
// (CREATED/CONFIRMED/CANCELLED), one order per ledger row, idempotent
// on order_ledger_id.
package orders

import (
	"time"

	"github.com/google/uuid"
)

// Status is an order's lifecycle position.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Item is one product line of an Order.
type Item struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// Order is the Orders service's authoritative record, one per
// OrderLedger row (unique on OrderLedgerID).
type Order struct {
	ID               uuid.UUID
	OrderLedgerID    uuid.UUID
	UserID           uuid.UUID
	Status           Status
	TotalAmountCents int64
	Currency         string
	Items            []Item
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}
