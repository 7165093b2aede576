// Package inventory implements the Inventory Reservation Engine (C3):
// atomic, idempotent, concurrency-safe stock reservation and release
// keyed by order_id, plus stock adjustments.
package inventory

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is a reservation row's lifecycle position.
type ReservationStatus string

const (
	ReservationStatusReserved ReservationStatus = "RESERVED"
	ReservationStatusReleased ReservationStatus = "RELEASED"
)

// Product is a stock-keeping unit. Stock changes only via Adjustment or
// a reservation transaction, never a bare UPDATE outside those paths.
type Product struct {
	ID             uuid.UUID
	SKU            string
	Name           string
	StockQuantity  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
}

// Adjustment is an immutable record of a stock quantity change, keyed
// uniquely by IdempotencyKey so AddStock is at-most-once.
type Adjustment struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	QuantityChange   int
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	IdempotencyKey   string
	ReferenceID      *string
	Notes            *string
	CreatedAt        time.Time
}

// Reservation is one logical hold of stock against an order_id/product_id
// pair. Invariant R1/R2 apply per spec.md §3.
type Reservation struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem is one requested product/quantity pair in a ReserveStock call.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
}
