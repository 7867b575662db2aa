package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ogrusev/bookmart/internal/models"
)

// OrderService is the member-facing slice of the fulfillment engine
type OrderService interface {
	// Checkout turns the user's cart into a pending pickup order
	Checkout(ctx context.Context, userID uint64) (*models.Order, error)
	// ListUserOrders returns list of user orders
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
}

// OrderHandler represents HTTP handler for member order requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type insufficientStockResponse struct {
	Error string                         `json:"error"`
	Lines []models.InsufficientStockLine `json:"lines"`
}

// Checkout creates a pickup order from the caller's cart
// 200 — заказ создан;
// 400 — корзина пуста;
// 401 — пользователь не аутентифицирован;
// 409 — недостаточно товара на складе;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := oh.svc.Checkout(r.Context(), payload.UserID)
		if err != nil {
			var stockErr *models.InsufficientStockError
			switch {
			case errors.Is(err, models.ErrEmptyCart):
				http.Error(w, "cart is empty", http.StatusBadRequest)
			case errors.As(err, &stockErr):
				writeJSON(w, http.StatusConflict, insufficientStockResponse{
					Error: "insufficient stock",
					Lines: stockErr.Lines,
				})
			case errors.Is(err, models.ErrDiscountConsumed):
				http.Error(w, "discount is no longer available", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

// ListUserOrders returns list of the caller's orders
// 200 — успешная обработка запроса;
// 204 — нет данных для ответа;
// 401 — пользователь не аутентифицирован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
