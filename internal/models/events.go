package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeProductListing     = "PRODUCT_LISTING"
	EventTypeCartLineAdded      = "CART_LINE_ADDED"
	EventTypeCartLineUpdated    = "CART_LINE_UPDATED"
	EventTypeCartLineRemoved    = "CART_LINE_REMOVED"
	EventTypeCartSnapshot       = "CART_SNAPSHOT"
	EventTypeTransactionCreated = "TRANSACTION_CREATED"
	EventTypePaymentAccepted    = "PAYMENT_ACCEPTED"
	EventTypeOperationRejected  = "OPERATION_REJECTED"
	EventTypeInventoryUpdated   = "INVENTORY_UPDATED"
	EventTypeSaleCompleted      = "SALE_COMPLETED"
)

// Event is implemented by every kiosk event
type Event interface {
	Meta() BaseEvent
	Key() string
}

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps a new event of the given type
func NewBaseEvent(eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: at,
	}
}

// Meta returns the common event fields
func (b BaseEvent) Meta() BaseEvent {
	return b
}

// CartKey is the partition key for cart events
func CartKey(cartID string) string {
	return fmt.Sprintf("cart-%s", cartID)
}

// TransactionKey is the partition key for transaction events
func TransactionKey(transactionID int64) string {
	return fmt.Sprintf("txn-%d", transactionID)
}

// ProductKey is the partition key for inventory events
func ProductKey(productID int64) string {
	return fmt.Sprintf("product-%d", productID)
}

// ProductListingEvent carries a catalog snapshot
type ProductListingEvent struct {
	BaseEvent
	Products []Product `json:"products"`
}

func (e *ProductListingEvent) Key() string { return "catalog" }

// CartLineEvent published when a cart line is added, updated or removed
type CartLineEvent struct {
	BaseEvent
	CartID    string          `json:"cart_id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Requested int             `json:"requested"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CartTotal decimal.Decimal `json:"cart_total"`
	LineCount int             `json:"line_count"`
}

func (e *CartLineEvent) Key() string { return CartKey(e.CartID) }

// CartSnapshotEvent published when a cart is displayed
type CartSnapshotEvent struct {
	BaseEvent
	CartSnapshot
}

func (e *CartSnapshotEvent) Key() string { return CartKey(e.CartID) }

// TransactionCreatedEvent published when a cart is frozen into a transaction
type TransactionCreatedEvent struct {
	BaseEvent
	TransactionID int64           `json:"transaction_id"`
	CartID        string          `json:"cart_id"`
	LineCount     int             `json:"line_count"`
	Total         decimal.Decimal `json:"total"`
}

func (e *TransactionCreatedEvent) Key() string { return TransactionKey(e.TransactionID) }

// PaymentAcceptedEvent published when a payment succeeds
type PaymentAcceptedEvent struct {
	BaseEvent
	PaymentResult
}

func (e *PaymentAcceptedEvent) Key() string { return TransactionKey(e.TransactionID) }

// OperationRejectedEvent published when an operation fails validation
type OperationRejectedEvent struct {
	BaseEvent
	Operation     string `json:"operation"`
	Reason        string `json:"reason"`
	Message       string `json:"message"`
	CartID        string `json:"cart_id,omitempty"`
	TransactionID int64  `json:"transaction_id,omitempty"`
	ProductID     int64  `json:"product_id,omitempty"`
}

func (e *OperationRejectedEvent) Key() string {
	if e.TransactionID != 0 {
		return TransactionKey(e.TransactionID)
	}
	return CartKey(e.CartID)
}

// InventoryUpdatedEvent published for every stock change committed by a sale
type InventoryUpdatedEvent struct {
	BaseEvent
	TransactionID int64 `json:"transaction_id"`
	StockChange
}

func (e *InventoryUpdatedEvent) Key() string { return ProductKey(e.ProductID) }

// SaleCompletedEvent carries the receipt of a completed transaction
type SaleCompletedEvent struct {
	BaseEvent
	Receipt Receipt `json:"receipt"`
}

func (e *SaleCompletedEvent) Key() string { return TransactionKey(e.Receipt.TransactionID) }
