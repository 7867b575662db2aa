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
	selectActiveDiscountQuery = `
						SELECT id, user_id, percent::text, is_used, applied_to_order_id, created_at, used_at
						FROM user_discounts
						WHERE user_id = $1 AND is_used = FALSE AND applied_to_order_id IS NULL
						ORDER BY created_at
						LIMIT 1
`
	selectDiscountByIDQuery = `
						SELECT id, user_id, percent::text, is_used, applied_to_order_id, created_at, used_at
						FROM user_discounts
						WHERE id = $1
`
)

// DiscountRepository implements DiscountRepository interface
type DiscountRepository struct {
	db *postgres.DB
}

// NewDiscountRepository creates new DiscountRepository instance
func NewDiscountRepository(db *postgres.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// GetActiveByUserID returns the user's unconsumed, un-earmarked loyalty discount
func (dr *DiscountRepository) GetActiveByUserID(ctx context.Context, userID uint64) (*models.UserDiscount, error) {
	return dr.getDiscount(ctx, selectActiveDiscountQuery, userID)
}

// GetByID returns the loyalty discount by its id
func (dr *DiscountRepository) GetByID(ctx context.Context, id uint64) (*models.UserDiscount, error) {
	return dr.getDiscount(ctx, selectDiscountByIDQuery, id)
}

func (dr *DiscountRepository) getDiscount(ctx context.Context, query string, arg any) (*models.UserDiscount, error) {
	var (
		discount models.UserDiscount
		percent  string
	)
	err := dr.db.QueryRow(ctx, query, arg).Scan(&discount.ID, &discount.UserID, &percent,
		&discount.IsUsed, &discount.AppliedToOrderID, &discount.CreatedAt, &discount.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	if discount.Percent, err = decimal.NewFromString(percent); err != nil {
		return nil, err
	}

	return &discount, nil
}
