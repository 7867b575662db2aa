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
	reserveStockQuery = `
						UPDATE books
						SET stock_quantity = stock_quantity - $2, updated_at = NOW()
						WHERE id = $1 AND stock_quantity >= $2
`
	restoreStockQuery = `
						UPDATE books
						SET stock_quantity = stock_quantity + $2, updated_at = NOW()
						WHERE id = $1
`
	selectStockQuery = `
						SELECT stock_quantity FROM books WHERE id = $1
`
	insertOrderQuery = `
						INSERT INTO orders (user_id, claim_code, subtotal, discount_amount, total_amount,
						                    status, qualifies_bulk, used_stackable, user_discount_id)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
						RETURNING id, created_at, updated_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, book_id, title, author, isbn,
						                         unit_price, discounted_unit_price, quantity, line_subtotal)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
						RETURNING id
`
	earmarkDiscountQuery = `
						UPDATE user_discounts
						SET applied_to_order_id = $1
						WHERE id = $2 AND is_used = FALSE AND applied_to_order_id IS NULL
`
	releaseDiscountQuery = `
						UPDATE user_discounts
						SET applied_to_order_id = NULL
						WHERE id = $1 AND is_used = FALSE
`
	consumeDiscountQuery = `
						UPDATE user_discounts
						SET is_used = TRUE, used_at = NOW()
						WHERE id = $1 AND applied_to_order_id = $2 AND is_used = FALSE
`
	clearCartQuery = `
						DELETE FROM cart_items WHERE cart_id = $1
`
	orderColumns = `id, user_id, claim_code, subtotal::text, discount_amount::text, total_amount::text,
						       status, qualifies_bulk, used_stackable, user_discount_id, pickup_date, created_at, updated_at`

	selectOrderByClaimCodeQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE claim_code = $1
`
	selectOrdersByUserIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	selectOrdersByStatusQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE status = $1
						ORDER BY created_at DESC
`
	selectOrderItemsQuery = `
						SELECT id, order_id, book_id, title, author, isbn,
						       unit_price::text, discounted_unit_price::text, quantity, line_subtotal::text
						FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = NOW()
						WHERE id = $2 AND status = $3
`
	completeOrderQuery = `
						UPDATE orders
						SET status = $1, pickup_date = NOW(), updated_at = NOW()
						WHERE id = $2 AND status = $3
						RETURNING pickup_date
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder persists the order atomically: stock is reserved per line,
// the order and its item snapshots are inserted, the loyalty discount is
// earmarked and the originating cart is cleared. Either everything commits
// or nothing does. Returns models.InsufficientStockError when any line
// cannot be reserved and models.ErrClaimCodeConflict when the generated
// claim code collides with an existing order.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, cartID uint64) (*models.Order, error) {
	tx, err := or.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// reserve stock for every line, collecting all failures before aborting
	var insufficient []models.InsufficientStockLine
	for _, item := range order.Items {
		cmd, err := tx.Exec(ctx, reserveStockQuery, item.BookID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var available int
			if err := tx.QueryRow(ctx, selectStockQuery, item.BookID).Scan(&available); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					available = 0
				} else {
					return nil, err
				}
			}
			insufficient = append(insufficient, models.InsufficientStockLine{
				BookID:    item.BookID,
				Title:     item.Title,
				Requested: item.Quantity,
				Available: available,
			})
		}
	}
	if len(insufficient) > 0 {
		return nil, &models.InsufficientStockError{Lines: insufficient}
	}

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.UserID, order.ClaimCode,
		order.Subtotal.StringFixed(2), order.DiscountAmount.StringFixed(2), order.TotalAmount.StringFixed(2),
		order.Status, order.QualifiedForBulkDiscount, order.UsedStackableDiscount, order.UserDiscountID,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			if or.db.ConstraintName(err) == claimCodeConstraintName {
				return nil, models.ErrClaimCodeConflict
			}
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		var discounted *string
		if item.DiscountedUnitPrice.Valid {
			s := item.DiscountedUnitPrice.Decimal.StringFixed(2)
			discounted = &s
		}
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			order.ID, item.BookID, item.Title, item.Author, item.ISBN,
			item.UnitPrice.StringFixed(2), discounted, item.Quantity, item.LineSubtotal.StringFixed(2),
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	if order.UserDiscountID != nil {
		cmd, err := tx.Exec(ctx, earmarkDiscountQuery, order.ID, *order.UserDiscountID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			// another order grabbed the entitlement between quote and commit
			return nil, models.ErrDiscountConsumed
		}
	}

	if _, err := tx.Exec(ctx, clearCartQuery, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByClaimCode returns order with its item snapshots
func (or *OrderRepository) GetOrderByClaimCode(ctx context.Context, code string) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByClaimCodeQuery, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	if order.Items, err = or.getOrderItems(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrdersByUserID gets user orders, newest first
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	return or.listOrders(ctx, selectOrdersByUserIDQuery, userID)
}

// GetOrdersByStatus returns orders in the given status for staff dashboards
func (or *OrderRepository) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return or.listOrders(ctx, selectOrdersByStatusQuery, status)
}

// UpdateOrderStatus transitions the order from the expected status to a new
// one. Returns models.ErrConflictData when the order is no longer in the
// expected status.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint64, from, to string) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, to, orderID, from)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrConflictData
	}

	return nil
}

// CompleteOrder transitions the order to COMPLETED, stamps the pickup time
// and durably consumes the earmarked loyalty discount in one transaction
func (or *OrderRepository) CompleteOrder(ctx context.Context, order *models.Order) error {
	tx, err := or.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, completeOrderQuery,
		models.OrderStatusCompleted, order.ID, models.OrderStatusReadyForPickup,
	).Scan(&order.PickupDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrConflictData
		}
		return err
	}

	if order.UserDiscountID != nil {
		cmd, err := tx.Exec(ctx, consumeDiscountQuery, *order.UserDiscountID, order.ID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			// the earmark is gone, completion must not commit without consuming it
			return models.ErrConflictData
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	order.Status = models.OrderStatusCompleted
	return nil
}

// CancelOrder transitions the order to CANCELLED, restores reserved stock for
// every item snapshot and releases the loyalty discount earmark in one
// transaction
func (or *OrderRepository) CancelOrder(ctx context.Context, order *models.Order) error {
	tx, err := or.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd, err := tx.Exec(ctx, updateOrderStatusQuery, models.OrderStatusCancelled, order.ID, order.Status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrConflictData
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, restoreStockQuery, item.BookID, item.Quantity); err != nil {
			return err
		}
	}

	if order.UserDiscountID != nil {
		if _, err := tx.Exec(ctx, releaseDiscountQuery, *order.UserDiscountID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	order.Status = models.OrderStatusCancelled
	return nil
}

func (or *OrderRepository) listOrders(ctx context.Context, query string, arg any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (or *OrderRepository) getOrderItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {
		var (
			item       models.OrderItem
			unitPrice  string
			discounted *string
			subtotal   string
		)
		err = rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title, &item.Author, &item.ISBN,
			&unitPrice, &discounted, &item.Quantity, &subtotal)
		if err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, err
		}
		if discounted != nil {
			d, err := decimal.NewFromString(*discounted)
			if err != nil {
				return nil, err
			}
			item.DiscountedUnitPrice = decimal.NewNullDecimal(d)
		}
		if item.LineSubtotal, err = decimal.NewFromString(subtotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// scanOrder reads one order row, NUMERIC columns travel as text
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order    models.Order
		subtotal string
		discount string
		total    string
	)
	err := row.Scan(&order.ID, &order.UserID, &order.ClaimCode, &subtotal, &discount, &total,
		&order.Status, &order.QualifiedForBulkDiscount, &order.UsedStackableDiscount,
		&order.UserDiscountID, &order.PickupDate, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if order.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, err
	}
	if order.DiscountAmount, err = decimal.NewFromString(discount); err != nil {
		return nil, err
	}
	if order.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &order, nil
}
