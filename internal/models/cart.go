package models

import "github.com/shopspring/decimal"

// Cart is working set for a not-yet-checked-out purchase, one per user
type Cart struct {
	ID     uint64
	UserID uint64
	Items  []CartItem
}

// CartItem is a cart line joined with the live book record
type CartItem struct {
	ID            uint64
	CartID        uint64
	BookID        uint64
	Quantity      int
	Title         string
	Author        string
	ISBN          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	StockQuantity int
}

// EffectiveUnitPrice returns discounted book price if the book is on sale at
// checkout time, otherwise its list price
func (ci *CartItem) EffectiveUnitPrice() decimal.Decimal {
	if ci.DiscountPrice.Valid {
		return ci.DiscountPrice.Decimal
	}
	return ci.Price
}
