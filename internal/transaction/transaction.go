// Package transaction binds a frozen cart to a payment and commits the sale.
//
// A transaction moves CREATED -> PAID -> COMPLETED. Every transition is one
// way and none may be skipped. Completion is the only step that writes to
// the catalog, and a completed transaction rejects further completion so
// stock is deducted exactly once.
package transaction

import (
	"time"

	"kiosk-service/internal/cart"
	"kiosk-service/internal/models"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// StockCommitter applies a sale's stock deductions atomically
type StockCommitter interface {
	CommitSale(deductions []models.StockDeduction) ([]models.StockChange, error)
}

// Transaction wraps its own copy of a cart with payment state
type Transaction struct {
	id          int64
	cart        *cart.Cart
	createdAt   time.Time
	completedAt time.Time
	status      string
	amountPaid  decimal.Decimal
	change      decimal.Decimal
}

// New creates an unpaid transaction over a copy of c. Later changes to c do
// not affect the transaction.
func New(id int64, c *cart.Cart, createdAt time.Time) *Transaction {
	return &Transaction{
		id:         id,
		cart:       c.Clone(),
		createdAt:  createdAt,
		status:     models.TransactionStatusCreated,
		amountPaid: decimal.Zero,
		change:     decimal.Zero,
	}
}

func (t *Transaction) ID() int64                   { return t.id }
func (t *Transaction) CartID() string              { return t.cart.ID() }
func (t *Transaction) Status() string              { return t.status }
func (t *Transaction) CreatedAt() time.Time        { return t.createdAt }
func (t *Transaction) CompletedAt() time.Time      { return t.completedAt }
func (t *Transaction) AmountPaid() decimal.Decimal { return t.amountPaid }
func (t *Transaction) Change() decimal.Decimal     { return t.change }
func (t *Transaction) Total() decimal.Decimal      { return t.cart.Total() }
func (t *Transaction) Lines() []models.CartLine    { return t.cart.Lines() }
func (t *Transaction) LineCount() int              { return t.cart.Len() }

// IsPaid reports whether payment has been accepted
func (t *Transaction) IsPaid() bool {
	return t.status == models.TransactionStatusPaid || t.status == models.TransactionStatusCompleted
}

// IsCompleted reports whether the sale has been committed
func (t *Transaction) IsCompleted() bool {
	return t.status == models.TransactionStatusCompleted
}

// Pay records amount as tendered and computes change
func (t *Transaction) Pay(amount decimal.Decimal) (models.PaymentResult, error) {
	if t.status != models.TransactionStatusCreated {
		return models.PaymentResult{}, errors.Wrapf(models.ErrAlreadyPaid, "transaction #%d", t.id)
	}
	if t.cart.IsEmpty() {
		return models.PaymentResult{}, errors.Wrapf(models.ErrEmptyCart, "transaction #%d", t.id)
	}

	due := t.cart.Total()
	if amount.LessThan(due) {
		return models.PaymentResult{}, errors.Wrapf(models.ErrInsufficientPayment,
			"required %s, paid %s", due.StringFixed(2), amount.StringFixed(2))
	}

	t.change = amount.Sub(due)
	t.amountPaid = amount
	t.status = models.TransactionStatusPaid

	return models.PaymentResult{
		TransactionID: t.id,
		AmountDue:     due,
		AmountPaid:    t.amountPaid,
		Change:        t.change,
	}, nil
}

// Complete commits every line against inventory in cart order and returns
// the receipt. A failed commit leaves the transaction paid and stock as it was.
func (t *Transaction) Complete(inventory StockCommitter, at time.Time) (models.Receipt, error) {
	switch t.status {
	case models.TransactionStatusCompleted:
		return models.Receipt{}, errors.Wrapf(models.ErrAlreadyCompleted, "transaction #%d", t.id)
	case models.TransactionStatusCreated:
		return models.Receipt{}, errors.Wrapf(models.ErrNotPaid, "transaction #%d is unpaid, cannot complete", t.id)
	}

	lines := t.cart.Lines()
	deductions := make([]models.StockDeduction, 0, len(lines))
	totalQuantity := 0
	for _, l := range lines {
		deductions = append(deductions, models.StockDeduction{ProductID: l.Product.ID, Quantity: l.Quantity})
		totalQuantity += l.Quantity
	}

	changes, err := inventory.CommitSale(deductions)
	if err != nil {
		return models.Receipt{}, errors.Wrapf(err, "commit transaction #%d", t.id)
	}

	t.status = models.TransactionStatusCompleted
	t.completedAt = at

	return models.Receipt{
		TransactionID: t.id,
		CreatedAt:     t.createdAt,
		CompletedAt:   at,
		Lines:         lines,
		ItemCount:     len(lines),
		TotalQuantity: totalQuantity,
		Total:         t.cart.Total(),
		AmountPaid:    t.amountPaid,
		Change:        t.change,
		StockChanges:  changes,
	}, nil
}
