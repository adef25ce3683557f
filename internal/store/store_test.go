package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"kiosk-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	saved map[int64]models.Receipt
	err   error
}

func (f *fakeSaver) SaveReceipt(_ context.Context, receipt models.Receipt) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.saved[receipt.TransactionID]; ok {
		return false, nil
	}
	f.saved[receipt.TransactionID] = receipt
	return true, nil
}

func sampleReceipt(id int64) models.Receipt {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return models.Receipt{
		TransactionID: id,
		CreatedAt:     at,
		CompletedAt:   at.Add(time.Minute),
		Lines: []models.CartLine{{
			Product:  models.Product{ID: 1001, Name: "Coca-Cola", Price: decimal.RequireFromString("3.50"), Stock: 10},
			Quantity: 2,
			Subtotal: decimal.RequireFromString("7.00"),
		}},
		ItemCount:     1,
		TotalQuantity: 2,
		Total:         decimal.RequireFromString("7.00"),
		AmountPaid:    decimal.RequireFromString("10.00"),
		Change:        decimal.RequireFromString("3.00"),
		StockChanges:  []models.StockChange{{ProductID: 1001, Name: "Coca-Cola", Before: 10, After: 8}},
	}
}

func TestJournalStoresCompletedSalesOnly(t *testing.T) {
	saver := &fakeSaver{saved: map[int64]models.Receipt{}}
	j := NewJournal(saver)
	ctx := context.Background()

	require.NoError(t, j.Emit(ctx, &models.TransactionCreatedEvent{
		BaseEvent:     models.NewBaseEvent(models.EventTypeTransactionCreated, time.Now()),
		TransactionID: 1,
	}))
	assert.Empty(t, saver.saved)

	sale := &models.SaleCompletedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeSaleCompleted, time.Now()),
		Receipt:   sampleReceipt(1),
	}
	require.NoError(t, j.Emit(ctx, sale))
	require.NoError(t, j.Emit(ctx, sale))
	assert.Len(t, saver.saved, 1)
}

func TestJournalPropagatesErrors(t *testing.T) {
	j := NewJournal(&fakeSaver{err: errors.New("db down")})
	err := j.Emit(context.Background(), &models.SaleCompletedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeSaleCompleted, time.Now()),
		Receipt:   sampleReceipt(2),
	})
	assert.ErrorContains(t, err, "db down")
}

func TestSaveReceiptIdempotent(t *testing.T) {
	dsn := os.Getenv("DATABASE_TEST_URL")
	if dsn == "" {
		t.Skip("Integration test - requires database (set DATABASE_TEST_URL)")
	}

	store, err := NewStore(dsn)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	receipt := sampleReceipt(time.Now().UnixNano())
	stored, err := store.SaveReceipt(ctx, receipt)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = store.SaveReceipt(ctx, receipt)
	require.NoError(t, err)
	assert.False(t, stored)

	got, err := store.GetReceipt(ctx, receipt.TransactionID)
	require.NoError(t, err)
	assert.True(t, receipt.Total.Equal(got.Total))
	assert.True(t, receipt.Change.Equal(got.Change))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Coca-Cola", got.Lines[0].Product.Name)
	assert.Equal(t, 8, got.StockChanges[0].After)

	recent, err := store.ListReceipts(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, recent)
}
