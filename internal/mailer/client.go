// Package mailer is a thin client for the external mail delivery service.
// The engine calls it fire-and-forget; retries are the collaborator's job.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/ogrusev/bookmart/internal/models"
)

// Client represents HTTP client for mail-related requests
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates new Client instance
func New(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type orderConfirmationRequest struct {
	MessageID string `json:"message_id"`
	UserID    uint64 `json:"user_id"`
	OrderID   uint64 `json:"order_id"`
	ClaimCode string `json:"claim_code"`
	Total     string `json:"total"`
}

// SendOrderConfirmation asks the mail service to deliver the pickup
// confirmation for the order
func (c *Client) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	// POST /api/mail/order-confirmation
	url, err := url.JoinPath(c.baseURL, "api", "mail", "order-confirmation")
	if err != nil {
		return err
	}

	body, err := json.Marshal(orderConfirmationRequest{
		MessageID: uuid.NewString(),
		UserID:    order.UserID,
		OrderID:   order.ID,
		ClaimCode: order.ClaimCode,
		Total:     order.TotalAmount.StringFixed(2),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return models.ErrInternalError
	}

	return nil
}
