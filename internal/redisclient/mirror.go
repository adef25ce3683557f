package redisclient

import (
	"context"
	"time"

	"kiosk-service/internal/models"
	"kiosk-service/internal/util"

	"go.uber.org/zap"
)

// Mirror is the part of Client that StockMirror writes to
type Mirror interface {
	PutProducts(ctx context.Context, products []models.Product) error
	SetStock(ctx context.Context, productID int64, stock int) error
	MarkSale(ctx context.Context, transactionID int64, total string, ttl time.Duration) (bool, error)
}

// StockMirror keeps a Redis read model of catalog stock for external
// displays. The catalog stays authoritative and nothing is read back.
type StockMirror struct {
	mirror  Mirror
	saleTTL time.Duration
	logger  *zap.Logger
}

// NewStockMirror creates a stock mirror sink
func NewStockMirror(mirror Mirror, saleTTL time.Duration) *StockMirror {
	return &StockMirror{
		mirror:  mirror,
		saleTTL: saleTTL,
		logger:  util.GetLogger(),
	}
}

func (m *StockMirror) Emit(ctx context.Context, event models.Event) error {
	switch e := event.(type) {
	case *models.ProductListingEvent:
		return m.mirror.PutProducts(ctx, e.Products)
	case *models.InventoryUpdatedEvent:
		return m.mirror.SetStock(ctx, e.ProductID, e.After)
	case *models.SaleCompletedEvent:
		fresh, err := m.mirror.MarkSale(ctx, e.Receipt.TransactionID, e.Receipt.Total.StringFixed(2), m.saleTTL)
		if err != nil {
			return err
		}
		if !fresh {
			m.logger.Warn("Sale already mirrored", zap.Int64("transaction_id", e.Receipt.TransactionID))
		}
	}
	return nil
}
