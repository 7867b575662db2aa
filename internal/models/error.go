package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidClaimCode   = errors.New("invalid claim code")
	ErrClaimCodeConflict  = errors.New("claim code already exists")
	ErrClaimCodeExhausted = errors.New("claim code generation retries exhausted")
	ErrDiscountConsumed   = errors.New("user discount is no longer available")
	ErrInvalidOrderStatus = errors.New("unknown order status")
	ErrInternalError      = errors.New("internal error")
)

// InsufficientStockLine describes a single cart line that cannot be fulfilled
type InsufficientStockLine struct {
	BookID    uint64 `json:"book_id"`
	Title     string `json:"title"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError reports every cart line whose requested quantity
// exceeds current stock. The checkout is aborted as a whole.
type InsufficientStockError struct {
	Lines []InsufficientStockLine
}

func (e *InsufficientStockError) Error() string {
	titles := make([]string, 0, len(e.Lines))
	for _, line := range e.Lines {
		titles = append(titles, fmt.Sprintf("%s (requested %d, available %d)", line.Title, line.Requested, line.Available))
	}
	return "insufficient stock: " + strings.Join(titles, ", ")
}

// OrderStateError reports a transition attempted from a state that does not
// allow it
type OrderStateError struct {
	Status string
	To     string
}

func (e *OrderStateError) Error() string {
	return fmt.Sprintf("order in status %s cannot transition to %s", e.Status, e.To)
}
