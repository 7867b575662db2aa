package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// order status
const (
	OrderStatusPending        = "PENDING"
	OrderStatusConfirmed      = "CONFIRMED"
	OrderStatusReadyForPickup = "READY_FOR_PICKUP"
	OrderStatusCompleted      = "COMPLETED"
	OrderStatusCancelled      = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusReadyForPickup,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is in-store pickup order entity.
// Amounts satisfy total = subtotal - discount, total >= 0.
type Order struct {
	ID                       uint64
	UserID                   uint64
	ClaimCode                string
	Subtotal                 decimal.Decimal
	DiscountAmount           decimal.Decimal
	TotalAmount              decimal.Decimal
	Status                   string
	QualifiedForBulkDiscount bool
	UsedStackableDiscount    bool
	UserDiscountID           *uint64
	PickupDate               *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
	Items                    []OrderItem
}

// OrderItem is immutable snapshot of a book at time of purchase.
// Book fields are captured at checkout so later catalog edits never alter
// historical orders. BookID is kept for stock restoration on cancel.
type OrderItem struct {
	ID                  uint64
	OrderID             uint64
	BookID              uint64
	Title               string
	Author              string
	ISBN                string
	UnitPrice           decimal.Decimal
	DiscountedUnitPrice decimal.NullDecimal
	Quantity            int
	LineSubtotal        decimal.Decimal
}
