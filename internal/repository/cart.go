package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogrusev/bookmart/internal/models"
	"github.com/ogrusev/bookmart/internal/repository/postgres"
	"github.com/shopspring/decimal"
)

const (
	selectCartByUserIDQuery = `
						SELECT id, user_id FROM carts
						WHERE user_id = $1
`
	selectCartItemsQuery = `
						SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity,
						       b.title, b.author, b.isbn,
						       b.price::text, b.discount_price::text, b.stock_quantity
						FROM cart_items ci
						JOIN books b ON b.id = ci.book_id
						WHERE ci.cart_id = $1
						ORDER BY ci.id
`
)

// CartRepository implements CartRepository interface
type CartRepository struct {
	db *postgres.DB
}

// NewCartRepository creates new CartRepository instance
func NewCartRepository(db *postgres.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetCartByUserID returns the user cart with its lines joined to live book records
func (cr *CartRepository) GetCartByUserID(ctx context.Context, userID uint64) (*models.Cart, error) {
	cart := models.Cart{}
	err := cr.db.QueryRow(ctx, selectCartByUserIDQuery, userID).Scan(&cart.ID, &cart.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	rows, err := cr.db.Query(ctx, selectCartItemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item          models.CartItem
			price         string
			discountPrice *string
		)
		err = rows.Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity,
			&item.Title, &item.Author, &item.ISBN,
			&price, &discountPrice, &item.StockQuantity)
		if err != nil {
			return nil, err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		if discountPrice != nil {
			d, err := decimal.NewFromString(*discountPrice)
			if err != nil {
				return nil, err
			}
			item.DiscountPrice = decimal.NewNullDecimal(d)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
