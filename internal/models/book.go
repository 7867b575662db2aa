package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is catalog book entity
type Book struct {
	ID            uint64
	Title         string
	Author        string
	ISBN          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice returns discounted price if the book is on sale, otherwise list price
func (b *Book) EffectivePrice() decimal.Decimal {
	if b.DiscountPrice.Valid {
		return b.DiscountPrice.Decimal
	}
	return b.Price
}
