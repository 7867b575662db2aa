package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserDiscount is a single-use loyalty entitlement earned outside the
// fulfillment engine. At most one unconsumed entry exists per user.
// AppliedToOrderID is set at checkout (earmark) so a second concurrent order
// cannot grab the same entitlement; IsUsed and UsedAt are set only when the
// order completes, so a cancelled order never burns the discount.
type UserDiscount struct {
	ID               uint64
	UserID           uint64
	Percent          decimal.Decimal
	IsUsed           bool
	AppliedToOrderID *uint64
	CreatedAt        time.Time
	UsedAt           *time.Time
}

// Active reports whether the discount is still consumable by a new order
func (ud *UserDiscount) Active() bool {
	return !ud.IsUsed && ud.AppliedToOrderID == nil
}
