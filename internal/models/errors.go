package models

import "github.com/go-faster/errors"

// Rejections reported by catalog, cart and transaction operations. Operations
// wrap these with context; match them with errors.Is.
var (
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCartFull            = errors.New("cart is full")
	ErrLineNotFound        = errors.New("line not found in cart")
	ErrAlreadyPaid         = errors.New("transaction already paid")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrNotPaid             = errors.New("transaction not paid")
	ErrAlreadyCompleted    = errors.New("transaction already completed")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrInvalidQuantity, "invalid_quantity"},
	{ErrProductNotFound, "product_not_found"},
	{ErrInsufficientStock, "insufficient_stock"},
	{ErrCartFull, "cart_full"},
	{ErrLineNotFound, "line_not_found"},
	{ErrAlreadyPaid, "already_paid"},
	{ErrEmptyCart, "empty_cart"},
	{ErrInsufficientPayment, "insufficient_payment"},
	{ErrNotPaid, "not_paid"},
	{ErrAlreadyCompleted, "already_completed"},
}

// Reason returns a stable label for err, used in metrics and events.
// Unknown errors map to "internal" and nil maps to "".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "internal"
}
