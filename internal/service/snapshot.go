package service

import (
	"github.com/ogrusev/bookmart/internal/models"
	"github.com/shopspring/decimal"
)

// snapshotCartItems converts cart lines into immutable order item snapshots.
// Title, author, ISBN and prices are captured at order time so later catalog
// edits never retroactively alter historical orders.
func snapshotCartItems(items []models.CartItem) []models.OrderItem {
	snapshots := make([]models.OrderItem, 0, len(items))

	for i := range items {
		item := &items[i]
		snapshots = append(snapshots, models.OrderItem{
			BookID:              item.BookID,
			Title:               item.Title,
			Author:              item.Author,
			ISBN:                item.ISBN,
			UnitPrice:           item.Price,
			DiscountedUnitPrice: item.DiscountPrice,
			Quantity:            item.Quantity,
			LineSubtotal:        item.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		})
	}

	return snapshots
}
