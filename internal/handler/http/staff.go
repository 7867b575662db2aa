package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogrusev/bookmart/internal/claimcode"
	"github.com/ogrusev/bookmart/internal/models"
)

// StaffOrderService is the staff-facing slice of the fulfillment engine
type StaffOrderService interface {
	// GetByClaimCode returns the order behind a claim code
	GetByClaimCode(ctx context.Context, code string) (*models.Order, error)
	// Confirm transitions PENDING -> CONFIRMED
	Confirm(ctx context.Context, code string) (*models.Order, error)
	// MarkReady transitions CONFIRMED -> READY_FOR_PICKUP
	MarkReady(ctx context.Context, code string) (*models.Order, error)
	// Complete transitions READY_FOR_PICKUP -> COMPLETED
	Complete(ctx context.Context, code string) (*models.Order, error)
	// Cancel transitions PENDING or CONFIRMED -> CANCELLED
	Cancel(ctx context.Context, code string) (*models.Order, error)
	// ListByStatus returns orders in the given status
	ListByStatus(ctx context.Context, status string) ([]models.Order, error)
}

// StaffHandler represents HTTP handler for staff order requests
type StaffHandler struct {
	svc StaffOrderService
}

// NewStaffHandler creates new StaffHandler instance
func NewStaffHandler(svc StaffOrderService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

type stateConflictResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// VerifyClaimCode looks an order up by its claim code
// 200 — успешная обработка запроса;
// 400 — неверный формат кода;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (sh *StaffHandler) VerifyClaimCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !claimcode.IsValid(code) {
			http.Error(w, "invalid claim code", http.StatusBadRequest)
			return
		}

		order, err := sh.svc.GetByClaimCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

// ConfirmOrder confirms a pending order
// 200 — заказ подтверждён (повторное подтверждение является no-op);
// 400 — неверный формат кода;
// 404 — заказ не найден;
// 409 — недопустимый переход состояния;
// 500 — внутренняя ошибка сервера.
func (sh *StaffHandler) ConfirmOrder() http.HandlerFunc {
	return sh.transitionHandler(func(ctx context.Context, code string) (*models.Order, error) {
		return sh.svc.Confirm(ctx, code)
	})
}

// MarkOrderReady marks a confirmed order ready for pickup
func (sh *StaffHandler) MarkOrderReady() http.HandlerFunc {
	return sh.transitionHandler(func(ctx context.Context, code string) (*models.Order, error) {
		return sh.svc.MarkReady(ctx, code)
	})
}

// CompleteOrder hands the order over and completes it
func (sh *StaffHandler) CompleteOrder() http.HandlerFunc {
	return sh.transitionHandler(func(ctx context.Context, code string) (*models.Order, error) {
		return sh.svc.Complete(ctx, code)
	})
}

// CancelOrder cancels a pending or confirmed order
func (sh *StaffHandler) CancelOrder() http.HandlerFunc {
	return sh.transitionHandler(func(ctx context.Context, code string) (*models.Order, error) {
		return sh.svc.Cancel(ctx, code)
	})
}

// ListOrders returns orders in the status given by the query parameter
// 200 — успешная обработка запроса;
// 204 — нет данных для ответа;
// 400 — неизвестный статус;
// 500 — внутренняя ошибка сервера.
func (sh *StaffHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")

		orders, err := sh.svc.ListByStatus(r.Context(), status)
		if err != nil {
			if errors.Is(err, models.ErrInvalidOrderStatus) {
				http.Error(w, "unknown order status", http.StatusBadRequest)
				return
			}
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

// transitionHandler maps a state machine call onto HTTP statuses
func (sh *StaffHandler) transitionHandler(fn func(ctx context.Context, code string) (*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !claimcode.IsValid(code) {
			http.Error(w, "invalid claim code", http.StatusBadRequest)
			return
		}

		order, err := fn(r.Context(), code)
		if err != nil {
			var stateErr *models.OrderStateError
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.As(err, &stateErr):
				writeJSON(w, http.StatusConflict, stateConflictResponse{
					Error:  stateErr.Error(),
					Status: stateErr.Status,
				})
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}
