package store

import (
	"context"

	"kiosk-service/internal/models"
	"kiosk-service/internal/util"

	"go.uber.org/zap"
)

// ReceiptSaver persists receipts
type ReceiptSaver interface {
	SaveReceipt(ctx context.Context, receipt models.Receipt) (bool, error)
}

// Journal is a sink that persists the receipt of every completed sale
type Journal struct {
	saver  ReceiptSaver
	logger *zap.Logger
}

// NewJournal creates a receipt journal sink
func NewJournal(saver ReceiptSaver) *Journal {
	return &Journal{saver: saver, logger: util.GetLogger()}
}

func (j *Journal) Emit(ctx context.Context, event models.Event) error {
	sale, ok := event.(*models.SaleCompletedEvent)
	if !ok {
		return nil
	}

	stored, err := j.saver.SaveReceipt(ctx, sale.Receipt)
	if err != nil {
		return err
	}
	if !stored {
		j.logger.Warn("Receipt already journaled", zap.Int64("transaction_id", sale.Receipt.TransactionID))
		return nil
	}

	j.logger.Info("Receipt journaled",
		zap.Int64("transaction_id", sale.Receipt.TransactionID),
		zap.String("total", sale.Receipt.Total.StringFixed(2)))
	return nil
}
