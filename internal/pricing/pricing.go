// Package pricing computes order totals from a line-item set and the user's
// loyalty entitlement. It is pure and holds no state across calls.
package pricing

import (
	"github.com/ogrusev/bookmart/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rules holds the store-wide bulk discount configuration
type Rules struct {
	// BulkThreshold is the total item quantity (not distinct titles) that
	// triggers the bulk discount
	BulkThreshold int
	// BulkPercent is the percent taken off subtotal when the threshold is met
	BulkPercent decimal.Decimal
}

// Quote is the pricing breakdown of a checkout
type Quote struct {
	Subtotal         decimal.Decimal
	BulkDiscount     decimal.Decimal
	LoyaltyDiscount  decimal.Decimal
	DiscountTotal    decimal.Decimal
	Total            decimal.Decimal
	QualifiesForBulk bool
	UsedLoyalty      bool
}

// Compute prices the cart. Subtotal sums quantity times the effective unit
// price (sale price when the book is on sale at checkout time). Bulk and
// loyalty discounts stack additively: both percentages are taken off the
// subtotal once, never compounded sequentially. That is a business decision,
// not an accident. Total is floored at zero.
func Compute(items []models.CartItem, loyalty *models.UserDiscount, rules Rules) Quote {
	quote := Quote{}

	totalQuantity := 0
	for i := range items {
		item := &items[i]
		line := item.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
		quote.Subtotal = quote.Subtotal.Add(line)
		totalQuantity += item.Quantity
	}
	quote.Subtotal = quote.Subtotal.Round(2)

	if rules.BulkThreshold > 0 && totalQuantity >= rules.BulkThreshold {
		quote.QualifiesForBulk = true
		quote.BulkDiscount = quote.Subtotal.Mul(rules.BulkPercent).Div(hundred).Round(2)
	}

	if loyalty != nil && loyalty.Active() {
		quote.UsedLoyalty = true
		quote.LoyaltyDiscount = quote.Subtotal.Mul(loyalty.Percent).Div(hundred).Round(2)
	}

	quote.DiscountTotal = quote.BulkDiscount.Add(quote.LoyaltyDiscount)
	if quote.DiscountTotal.GreaterThan(quote.Subtotal) {
		quote.DiscountTotal = quote.Subtotal
	}
	quote.Total = quote.Subtotal.Sub(quote.DiscountTotal)

	return quote
}
