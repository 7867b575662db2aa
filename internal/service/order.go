package service

import (
	"context"
	"errors"
	"time"

	"github.com/ogrusev/bookmart/internal/models"
	"github.com/ogrusev/bookmart/internal/pricing"
	"go.uber.org/zap"
)

// maxClaimCodeRetries bounds regeneration on claim code collision at insert.
// Exhausting it means the code space is degrading and the checkout fails.
const maxClaimCodeRetries = 5

// mailTimeout bounds the fire-and-forget confirmation mail call
const mailTimeout = 10 * time.Second

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder atomically reserves stock, persists the order with its item
	// snapshots, earmarks the loyalty discount and clears the cart
	CreateOrder(ctx context.Context, order *models.Order, cartID uint64) (*models.Order, error)
	// GetOrderByClaimCode returns order with items by claim code
	GetOrderByClaimCode(ctx context.Context, code string) (*models.Order, error)
	// GetOrdersByUserID gets user orders
	GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// GetOrdersByStatus returns orders in the given status
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	// UpdateOrderStatus transitions order from expected status to a new one
	UpdateOrderStatus(ctx context.Context, orderID uint64, from, to string) error
	// CompleteOrder finishes the order and consumes the earmarked discount
	CompleteOrder(ctx context.Context, order *models.Order) error
	// CancelOrder cancels the order, restores stock and releases the discount
	CancelOrder(ctx context.Context, order *models.Order) error
}

// CartRepository is interface for interacting with cart-related data
type CartRepository interface {
	// GetCartByUserID returns the user cart with its lines
	GetCartByUserID(ctx context.Context, userID uint64) (*models.Cart, error)
}

// DiscountRepository is interface for interacting with loyalty discounts
type DiscountRepository interface {
	// GetActiveByUserID returns the user's consumable discount
	GetActiveByUserID(ctx context.Context, userID uint64) (*models.UserDiscount, error)
}

// ClaimCodeGenerator produces pickup codes
type ClaimCodeGenerator interface {
	Generate() (string, error)
}

// Broadcaster pushes domain events to connected clients
type Broadcaster interface {
	SendToUser(ctx context.Context, userID uint64, event models.Event)
	SendToAll(ctx context.Context, event models.Event)
}

// Mailer delivers order confirmation mail
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// OrderService drives the order through checkout and the pickup state machine
type OrderService struct {
	orders      OrderRepository
	carts       CartRepository
	discounts   DiscountRepository
	codes       ClaimCodeGenerator
	rules       pricing.Rules
	broadcaster Broadcaster
	mailer      Mailer
	logger      *zap.Logger
}

// NewOrderService creates new OrderService instance
func NewOrderService(orders OrderRepository, carts CartRepository, discounts DiscountRepository,
	codes ClaimCodeGenerator, rules pricing.Rules, broadcaster Broadcaster, mailer Mailer,
	logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:      orders,
		carts:       carts,
		discounts:   discounts,
		codes:       codes,
		rules:       rules,
		broadcaster: broadcaster,
		mailer:      mailer,
		logger:      logger,
	}
}

type orderCreatedPayload struct {
	OrderID   uint64 `json:"order_id"`
	ClaimCode string `json:"claim_code"`
	Status    string `json:"status"`
	Total     string `json:"total"`
}

type orderStatusPayload struct {
	OrderID uint64 `json:"order_id"`
	Status  string `json:"status"`
}

// Checkout turns the user's cart into a claimed pickup order in PENDING.
// The whole operation is atomic: if any cart line cannot be reserved the
// checkout aborts and reports every insufficient line.
func (os *OrderService) Checkout(ctx context.Context, userID uint64) (*models.Order, error) {
	cart, err := os.carts.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	loyalty, err := os.discounts.GetActiveByUserID(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrDataNotFound) {
		return nil, err
	}

	quote := pricing.Compute(cart.Items, loyalty, os.rules)

	order := &models.Order{
		UserID:                   userID,
		Status:                   models.OrderStatusPending,
		Subtotal:                 quote.Subtotal,
		DiscountAmount:           quote.DiscountTotal,
		TotalAmount:              quote.Total,
		QualifiedForBulkDiscount: quote.QualifiesForBulk,
		UsedStackableDiscount:    quote.UsedLoyalty,
		Items:                    snapshotCartItems(cart.Items),
	}
	if quote.UsedLoyalty {
		order.UserDiscountID = &loyalty.ID
	}

	created, err := os.createWithFreshCode(ctx, order, cart.ID)
	if err != nil {
		return nil, err
	}

	// multi-device UI sync for the member, staff are not notified here
	os.broadcaster.SendToUser(ctx, userID, models.Event{
		Type: models.EventOrderCreated,
		Data: orderCreatedPayload{
			OrderID:   created.ID,
			ClaimCode: created.ClaimCode,
			Status:    created.Status,
			Total:     created.TotalAmount.StringFixed(2),
		},
		Timestamp: time.Now(),
	})

	go os.sendConfirmationMail(created)

	return created, nil
}

// createWithFreshCode retries order persistence with a new claim code while
// the insert keeps colliding on the claim code constraint
func (os *OrderService) createWithFreshCode(ctx context.Context, order *models.Order, cartID uint64) (*models.Order, error) {
	for attempt := 0; attempt < maxClaimCodeRetries; attempt++ {
		code, err := os.codes.Generate()
		if err != nil {
			return nil, err
		}
		order.ClaimCode = code

		created, err := os.orders.CreateOrder(ctx, order, cartID)
		if err != nil {
			if errors.Is(err, models.ErrClaimCodeConflict) {
				os.logger.Warn("claim code collision, regenerating",
					zap.String("claim_code", code),
					zap.Int("attempt", attempt+1))
				continue
			}
			return nil, err
		}
		return created, nil
	}

	os.logger.Error("claim code retries exhausted", zap.Int("retries", maxClaimCodeRetries))
	return nil, models.ErrClaimCodeExhausted
}

// GetByClaimCode returns the order behind a claim code, for staff verification
func (os *OrderService) GetByClaimCode(ctx context.Context, code string) (*models.Order, error) {
	return os.orders.GetOrderByClaimCode(ctx, code)
}

// Confirm transitions PENDING -> CONFIRMED on staff claim code lookup.
// Re-confirming an already confirmed order is a no-op success.
func (os *OrderService) Confirm(ctx context.Context, code string) (*models.Order, error) {
	order, err := os.orders.GetOrderByClaimCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusConfirmed:
		return order, nil
	case models.OrderStatusPending:
	default:
		return nil, &models.OrderStateError{Status: order.Status, To: models.OrderStatusConfirmed}
	}

	if err := os.transition(ctx, order, models.OrderStatusPending, models.OrderStatusConfirmed); err != nil {
		return nil, err
	}

	return order, nil
}

// MarkReady transitions CONFIRMED -> READY_FOR_PICKUP after staff staged the items
func (os *OrderService) MarkReady(ctx context.Context, code string) (*models.Order, error) {
	order, err := os.orders.GetOrderByClaimCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusConfirmed {
		return nil, &models.OrderStateError{Status: order.Status, To: models.OrderStatusReadyForPickup}
	}

	if err := os.transition(ctx, order, models.OrderStatusConfirmed, models.OrderStatusReadyForPickup); err != nil {
		return nil, err
	}

	return order, nil
}

// Complete transitions READY_FOR_PICKUP -> COMPLETED, stamps the pickup time
// and durably consumes the earmarked loyalty discount. Consumption is
// deferred to this point so a cancelled order never burns the discount.
func (os *OrderService) Complete(ctx context.Context, code string) (*models.Order, error) {
	order, err := os.orders.GetOrderByClaimCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusReadyForPickup {
		return nil, &models.OrderStateError{Status: order.Status, To: models.OrderStatusCompleted}
	}

	if err := os.orders.CompleteOrder(ctx, order); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return nil, &models.OrderStateError{Status: order.Status, To: models.OrderStatusCompleted}
		}
		return nil, err
	}

	os.notifyStatusChanged(ctx, order)

	return order, nil
}

// Cancel transitions PENDING or CONFIRMED -> CANCELLED, restoring reserved
// stock and releasing the loyalty discount earmark
func (os *OrderService) Cancel(ctx context.Context, code string) (*models.Order, error) {
	order, err := os.orders.GetOrderByClaimCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusPending, models.OrderStatusConfirmed:
	default:
		return nil, &models.OrderStateError{Status: order.Status, To: models.OrderStatusCancelled}
	}

	if err := os.orders.CancelOrder(ctx, order); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return nil, &models.OrderStateError{Status: order.Status, To: models.OrderStatusCancelled}
		}
		return nil, err
	}

	os.notifyStatusChanged(ctx, order)

	return order, nil
}

// ListUserOrders returns list of user orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	return os.orders.GetOrdersByUserID(ctx, userID)
}

// ListByStatus returns orders in the given status for the staff dashboard
// pull query
func (os *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, models.ErrInvalidOrderStatus
	}
	return os.orders.GetOrdersByStatus(ctx, status)
}

func (os *OrderService) transition(ctx context.Context, order *models.Order, from, to string) error {
	if err := os.orders.UpdateOrderStatus(ctx, order.ID, from, to); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return &models.OrderStateError{Status: order.Status, To: to}
		}
		return err
	}

	order.Status = to
	os.notifyStatusChanged(ctx, order)

	return nil
}

func (os *OrderService) notifyStatusChanged(ctx context.Context, order *models.Order) {
	os.broadcaster.SendToUser(ctx, order.UserID, models.Event{
		Type: models.EventOrderStatusChanged,
		Data: orderStatusPayload{
			OrderID: order.ID,
			Status:  order.Status,
		},
		Timestamp: time.Now(),
	})
}

func (os *OrderService) sendConfirmationMail(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	if err := os.mailer.SendOrderConfirmation(ctx, order); err != nil {
		os.logger.Warn("order confirmation mail failed",
			zap.Uint64("order_id", order.ID),
			zap.Error(err))
	}
}
