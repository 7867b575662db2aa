package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ogrusev/bookmart/internal/models"
)

type orderItemResponse struct {
	Title               string  `json:"title"`
	Author              string  `json:"author"`
	ISBN                string  `json:"isbn"`
	UnitPrice           string  `json:"unit_price"`
	DiscountedUnitPrice *string `json:"discounted_unit_price,omitempty"`
	Quantity            int     `json:"quantity"`
	LineSubtotal        string  `json:"line_subtotal"`
}

type orderResponse struct {
	ID             uint64              `json:"id"`
	UserID         uint64              `json:"user_id"`
	ClaimCode      string              `json:"claim_code"`
	Status         string              `json:"status"`
	Subtotal       string              `json:"subtotal"`
	DiscountAmount string              `json:"discount_amount"`
	Total          string              `json:"total"`
	PickupDate     *string             `json:"pickup_date,omitempty"`
	CreatedAt      string              `json:"created_at"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:             order.ID,
		UserID:         order.UserID,
		ClaimCode:      order.ClaimCode,
		Status:         order.Status,
		Subtotal:       order.Subtotal.StringFixed(2),
		DiscountAmount: order.DiscountAmount.StringFixed(2),
		Total:          order.TotalAmount.StringFixed(2),
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
	}

	if order.PickupDate != nil {
		pickup := order.PickupDate.Format(time.RFC3339)
		resp.PickupDate = &pickup
	}

	for _, item := range order.Items {
		itemResp := orderItemResponse{
			Title:        item.Title,
			Author:       item.Author,
			ISBN:         item.ISBN,
			UnitPrice:    item.UnitPrice.StringFixed(2),
			Quantity:     item.Quantity,
			LineSubtotal: item.LineSubtotal.StringFixed(2),
		}
		if item.DiscountedUnitPrice.Valid {
			discounted := item.DiscountedUnitPrice.Decimal.StringFixed(2)
			itemResp.DiscountedUnitPrice = &discounted
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// the status line is already written, nothing useful to do on encode failure
	_ = json.NewEncoder(w).Encode(v)
}
