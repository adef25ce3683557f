package service

import (
	"context"
	"strconv"
	"time"

	"kiosk-service/internal/cart"
	"kiosk-service/internal/catalog"
	"kiosk-service/internal/models"
	"kiosk-service/internal/report"
	"kiosk-service/internal/transaction"
	"kiosk-service/internal/util"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SalesService runs the checkout flow against a catalog and reports every
// step to a sink
type SalesService struct {
	catalog      *catalog.Catalog
	sink         report.Sink
	seq          *transaction.Sequence
	cartMaxLines int
	now          func() time.Time
	logger       *zap.Logger
}

// Option customizes a SalesService
type Option func(*SalesService)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *SalesService) { s.now = now }
}

// WithSequence overrides the transaction id sequence
func WithSequence(seq *transaction.Sequence) Option {
	return func(s *SalesService) { s.seq = seq }
}

// NewSalesService creates a new sales service
func NewSalesService(cat *catalog.Catalog, sink report.Sink, cartMaxLines int, opts ...Option) *SalesService {
	s := &SalesService{
		catalog:      cat,
		sink:         sink,
		cartMaxLines: cartMaxLines,
		now:          time.Now,
		logger:       util.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seq == nil {
		s.seq = transaction.NewTimeSequence(s.now())
	}
	for _, p := range cat.ListAll() {
		util.ProductStock.WithLabelValues(strconv.FormatInt(p.ID, 10)).Set(float64(p.Stock))
	}
	return s
}

// Catalog returns the catalog the service sells from
func (s *SalesService) Catalog() *catalog.Catalog {
	return s.catalog
}

// ListProducts returns every product in catalog order
func (s *SalesService) ListProducts(ctx context.Context) []models.Product {
	ctx, span := util.StartSpan(ctx, "SalesService.ListProducts")
	defer span.End()

	products := s.catalog.ListAll()
	span.SetAttributes(attribute.Int("product_count", len(products)))

	s.emit(ctx, &models.ProductListingEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeProductListing, s.now()),
		Products:  products,
	})
	return products
}

// NewCart creates an empty cart with the configured capacity
func (s *SalesService) NewCart() *cart.Cart {
	c := cart.New(s.cartMaxLines)
	s.logger.Debug("Cart created", zap.String("cart_id", c.ID()), zap.Int("max_lines", c.MaxLines()))
	return c
}

// AddItem adds quantity units of productID to c
func (s *SalesService) AddItem(ctx context.Context, c *cart.Cart, productID int64, quantity int) (models.LineChange, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("cart_id", c.ID()),
		attribute.Int64("product_id", productID),
		attribute.Int("quantity", quantity),
	)

	change, err := c.AddItem(s.catalog, productID, quantity)
	if err != nil {
		s.reject(ctx, span, "add_item", err, &models.OperationRejectedEvent{
			CartID:    c.ID(),
			ProductID: productID,
		})
		return models.LineChange{}, err
	}

	util.CartLinesAddedTotal.Inc()
	s.logger.Info("Cart line changed",
		zap.String("cart_id", c.ID()),
		zap.String("action", change.Action),
		zap.Int64("product_id", productID),
		zap.Int("quantity", change.Line.Quantity))

	eventType := models.EventTypeCartLineUpdated
	if change.Action == models.LineActionAdded {
		eventType = models.EventTypeCartLineAdded
	}
	s.emit(ctx, lineEvent(eventType, change, s.now()))
	return change, nil
}

// RemoveItem removes the line for productID from c
func (s *SalesService) RemoveItem(ctx context.Context, c *cart.Cart, productID int64) (models.LineChange, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.RemoveItem")
	defer span.End()
	span.SetAttributes(attribute.String("cart_id", c.ID()), attribute.Int64("product_id", productID))

	change, err := c.RemoveItem(productID)
	if err != nil {
		s.reject(ctx, span, "remove_item", err, &models.OperationRejectedEvent{
			CartID:    c.ID(),
			ProductID: productID,
		})
		return models.LineChange{}, err
	}

	util.CartLinesRemovedTotal.Inc()
	s.logger.Info("Cart line removed", zap.String("cart_id", c.ID()), zap.Int64("product_id", productID))

	s.emit(ctx, lineEvent(models.EventTypeCartLineRemoved, change, s.now()))
	return change, nil
}

// DescribeCart reports and returns a snapshot of c
func (s *SalesService) DescribeCart(ctx context.Context, c *cart.Cart) models.CartSnapshot {
	ctx, span := util.StartSpan(ctx, "SalesService.DescribeCart")
	defer span.End()

	snap := c.Snapshot()
	s.emit(ctx, &models.CartSnapshotEvent{
		BaseEvent:    models.NewBaseEvent(models.EventTypeCartSnapshot, s.now()),
		CartSnapshot: snap,
	})
	return snap
}

// CreateTransaction freezes c into a new transaction. An empty cart is
// accepted; the payment step rejects it.
func (s *SalesService) CreateTransaction(ctx context.Context, c *cart.Cart) *transaction.Transaction {
	ctx, span := util.StartSpan(ctx, "SalesService.CreateTransaction")
	defer span.End()

	txn := transaction.New(s.seq.Next(), c, s.now())
	span.SetAttributes(attribute.Int64("transaction_id", txn.ID()))

	util.TransactionsCreatedTotal.Inc()
	s.logger.Info("Transaction created",
		zap.Int64("transaction_id", txn.ID()),
		zap.String("cart_id", txn.CartID()),
		zap.String("total", txn.Total().StringFixed(2)))

	s.emit(ctx, &models.TransactionCreatedEvent{
		BaseEvent:     models.NewBaseEvent(models.EventTypeTransactionCreated, s.now()),
		TransactionID: txn.ID(),
		CartID:        txn.CartID(),
		LineCount:     txn.LineCount(),
		Total:         txn.Total(),
	})
	return txn
}

// Pay tenders amount for txn
func (s *SalesService) Pay(ctx context.Context, txn *transaction.Transaction, amount decimal.Decimal) (models.PaymentResult, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.Pay")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("transaction_id", txn.ID()),
		attribute.String("amount", amount.StringFixed(2)),
	)

	result, err := txn.Pay(amount)
	if err != nil {
		s.reject(ctx, span, "pay", err, &models.OperationRejectedEvent{
			CartID:        txn.CartID(),
			TransactionID: txn.ID(),
		})
		return models.PaymentResult{}, err
	}

	util.PaymentsAcceptedTotal.Inc()
	s.logger.Info("Payment accepted",
		zap.Int64("transaction_id", txn.ID()),
		zap.String("amount_paid", result.AmountPaid.StringFixed(2)),
		zap.String("change", result.Change.StringFixed(2)))

	s.emit(ctx, &models.PaymentAcceptedEvent{
		BaseEvent:     models.NewBaseEvent(models.EventTypePaymentAccepted, s.now()),
		PaymentResult: result,
	})
	return result, nil
}

// Complete commits txn against the catalog and reports the stock changes
// followed by the receipt
func (s *SalesService) Complete(ctx context.Context, txn *transaction.Transaction) (models.Receipt, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.Complete")
	defer span.End()
	span.SetAttributes(attribute.Int64("transaction_id", txn.ID()))

	receipt, err := txn.Complete(s.catalog, s.now())
	if err != nil {
		s.reject(ctx, span, "complete", err, &models.OperationRejectedEvent{
			CartID:        txn.CartID(),
			TransactionID: txn.ID(),
		})
		return models.Receipt{}, err
	}

	for _, change := range receipt.StockChanges {
		util.ProductStock.WithLabelValues(strconv.FormatInt(change.ProductID, 10)).Set(float64(change.After))
		util.UnitsSoldTotal.Add(float64(change.Sold()))
		s.emit(ctx, &models.InventoryUpdatedEvent{
			BaseEvent:     models.NewBaseEvent(models.EventTypeInventoryUpdated, s.now()),
			TransactionID: txn.ID(),
			StockChange:   change,
		})
	}

	util.SalesCompletedTotal.Inc()
	util.SaleAmount.Observe(receipt.Total.InexactFloat64())
	s.logger.Info("Sale completed",
		zap.Int64("transaction_id", txn.ID()),
		zap.Int("items", receipt.ItemCount),
		zap.Int("quantity", receipt.TotalQuantity),
		zap.String("total", receipt.Total.StringFixed(2)))

	s.emit(ctx, &models.SaleCompletedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeSaleCompleted, s.now()),
		Receipt:   receipt,
	})
	return receipt, nil
}

func lineEvent(eventType string, change models.LineChange, at time.Time) *models.CartLineEvent {
	return &models.CartLineEvent{
		BaseEvent: models.NewBaseEvent(eventType, at),
		CartID:    change.CartID,
		ProductID: change.Line.Product.ID,
		Name:      change.Line.Product.Name,
		UnitPrice: change.Line.Product.Price,
		Quantity:  change.Line.Quantity,
		Requested: change.Requested,
		Subtotal:  change.Line.Subtotal,
		CartTotal: change.CartTotal,
		LineCount: change.LineCount,
	}
}

func (s *SalesService) reject(ctx context.Context, span trace.Span, operation string, err error, event *models.OperationRejectedEvent) {
	reason := models.Reason(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)

	util.OperationsRejectedTotal.WithLabelValues(operation, reason).Inc()
	s.logger.Warn("Operation rejected",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err))

	event.BaseEvent = models.NewBaseEvent(models.EventTypeOperationRejected, s.now())
	event.Operation = operation
	event.Reason = reason
	event.Message = err.Error()
	s.emit(ctx, event)
}

// emit hands event to the sink. Sink failures never undo the operation
// that produced the event.
func (s *SalesService) emit(ctx context.Context, event models.Event) {
	if err := s.sink.Emit(ctx, event); err != nil {
		meta := event.Meta()
		util.SinkErrorsTotal.WithLabelValues(meta.EventType).Inc()
		s.logger.Error("Failed to report event",
			zap.String("event_type", meta.EventType),
			zap.String("event_id", meta.EventID),
			zap.Error(err))
	}
}
