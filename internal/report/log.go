package report

import (
	"context"

	"kiosk-service/internal/models"

	"go.uber.org/zap"
)

// Log writes one structured entry per event
type Log struct {
	logger *zap.Logger
}

// NewLog creates a log sink
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Emit(_ context.Context, event models.Event) error {
	meta := event.Meta()
	fields := []zap.Field{
		zap.String("event_id", meta.EventID),
		zap.String("event_type", meta.EventType),
		zap.String("key", event.Key()),
	}

	switch e := event.(type) {
	case *models.ProductListingEvent:
		fields = append(fields, zap.Int("products", len(e.Products)))
	case *models.CartLineEvent:
		fields = append(fields,
			zap.String("cart_id", e.CartID),
			zap.Int64("product_id", e.ProductID),
			zap.Int("quantity", e.Quantity),
			zap.String("subtotal", e.Subtotal.StringFixed(2)),
			zap.String("cart_total", e.CartTotal.StringFixed(2)))
	case *models.CartSnapshotEvent:
		fields = append(fields,
			zap.String("cart_id", e.CartID),
			zap.Int("lines", e.LineCount),
			zap.String("total", e.Total.StringFixed(2)))
	case *models.TransactionCreatedEvent:
		fields = append(fields,
			zap.Int64("transaction_id", e.TransactionID),
			zap.String("cart_id", e.CartID),
			zap.String("total", e.Total.StringFixed(2)))
	case *models.PaymentAcceptedEvent:
		fields = append(fields,
			zap.Int64("transaction_id", e.TransactionID),
			zap.String("amount_due", e.AmountDue.StringFixed(2)),
			zap.String("amount_paid", e.AmountPaid.StringFixed(2)),
			zap.String("change", e.Change.StringFixed(2)))
	case *models.OperationRejectedEvent:
		fields = append(fields,
			zap.String("operation", e.Operation),
			zap.String("reason", e.Reason),
			zap.String("message", e.Message))
		l.logger.Warn("Operation rejected", fields...)
		return nil
	case *models.InventoryUpdatedEvent:
		fields = append(fields,
			zap.Int64("transaction_id", e.TransactionID),
			zap.Int64("product_id", e.ProductID),
			zap.Int("before", e.Before),
			zap.Int("after", e.After))
	case *models.SaleCompletedEvent:
		fields = append(fields,
			zap.Int64("transaction_id", e.Receipt.TransactionID),
			zap.Int("items", e.Receipt.ItemCount),
			zap.String("total", e.Receipt.Total.StringFixed(2)),
			zap.String("change", e.Receipt.Change.StringFixed(2)))
	}

	l.logger.Info("Kiosk event", fields...)
	return nil
}
