package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID    int64           `db:"id" json:"id"`
	Name  string          `db:"name" json:"name"`
	Price decimal.Decimal `db:"price" json:"price"`
	Stock int             `db:"stock" json:"stock"`
}

// CartLine is one product entry in a cart. Product is a value snapshot taken
// when the line was created.
type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Line change actions
const (
	LineActionAdded   = "added"
	LineActionUpdated = "updated"
	LineActionRemoved = "removed"
)

// LineChange describes the outcome of a cart mutation
type LineChange struct {
	CartID    string          `json:"cart_id"`
	Action    string          `json:"action"`
	Line      CartLine        `json:"line"`
	Requested int             `json:"requested,omitempty"`
	CartTotal decimal.Decimal `json:"cart_total"`
	LineCount int             `json:"line_count"`
}

// CartSnapshot is a read-only view of a cart
type CartSnapshot struct {
	CartID    string          `json:"cart_id"`
	Lines     []CartLine      `json:"lines"`
	LineCount int             `json:"line_count"`
	MaxLines  int             `json:"max_lines"`
	Total     decimal.Decimal `json:"total"`
}

// StockDeduction is a request to take quantity units of a product out of stock
type StockDeduction struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// StockChange records a committed stock mutation
type StockChange struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
}

// Sold returns the number of units removed from stock
func (c StockChange) Sold() int {
	return c.Before - c.After
}

// PaymentResult is returned by a successful payment
type PaymentResult struct {
	TransactionID int64           `json:"transaction_id"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
}

// Receipt is emitted when a transaction completes
type Receipt struct {
	TransactionID int64           `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	CompletedAt   time.Time       `db:"completed_at" json:"completed_at"`
	Lines         []CartLine      `db:"-" json:"lines"`
	ItemCount     int             `db:"item_count" json:"item_count"`
	TotalQuantity int             `db:"total_quantity" json:"total_quantity"`
	Total         decimal.Decimal `db:"total" json:"total"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	Change        decimal.Decimal `db:"change_due" json:"change"`
	StockChanges  []StockChange   `db:"-" json:"stock_changes"`
}

// Transaction statuses
const (
	TransactionStatusCreated   = "CREATED"
	TransactionStatusPaid      = "PAID"
	TransactionStatusCompleted = "COMPLETED"
)
