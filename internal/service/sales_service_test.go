package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kiosk-service/internal/catalog"
	"kiosk-service/internal/models"
	"kiosk-service/internal/report"
	"kiosk-service/internal/transaction"
	"kiosk-service/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, sink report.Sink) *SalesService {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)
	return NewSalesService(cat, sink, 3,
		WithClock(func() time.Time { return fixedNow }),
		WithSequence(transaction.NewSequence(100)))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheckoutEmitsEventsInOrder(t *testing.T) {
	rec := report.NewRecorder()
	svc := newTestService(t, rec)
	ctx := context.Background()

	products := svc.ListProducts(ctx)
	require.Len(t, products, 6)

	c := svc.NewCart()
	_, err := svc.AddItem(ctx, c, 1001, 2)
	require.NoError(t, err)
	change, err := svc.AddItem(ctx, c, 1001, 1)
	require.NoError(t, err)
	assert.Equal(t, models.LineActionUpdated, change.Action)
	assert.Equal(t, 3, change.Line.Quantity)

	snap := svc.DescribeCart(ctx, c)
	assert.True(t, dec("10.50").Equal(snap.Total))

	txn := svc.CreateTransaction(ctx, c)
	assert.Equal(t, int64(101), txn.ID())

	result, err := svc.Pay(ctx, txn, dec("20"))
	require.NoError(t, err)
	assert.True(t, dec("9.50").Equal(result.Change))

	receipt, err := svc.Complete(ctx, txn)
	require.NoError(t, err)
	assert.Equal(t, int64(101), receipt.TransactionID)

	assert.Equal(t, []string{
		models.EventTypeProductListing,
		models.EventTypeCartLineAdded,
		models.EventTypeCartLineUpdated,
		models.EventTypeCartSnapshot,
		models.EventTypeTransactionCreated,
		models.EventTypePaymentAccepted,
		models.EventTypeInventoryUpdated,
		models.EventTypeSaleCompleted,
	}, rec.Types())

	inv := rec.Last(models.EventTypeInventoryUpdated).(*models.InventoryUpdatedEvent)
	assert.Equal(t, 10, inv.Before)
	assert.Equal(t, 7, inv.After)
	assert.Equal(t, "product-1001", inv.Key())

	p, err := svc.Catalog().FindByID(1001)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
}

func TestRejectionsAreReported(t *testing.T) {
	rec := report.NewRecorder()
	svc := newTestService(t, rec)
	ctx := context.Background()
	c := svc.NewCart()

	_, err := svc.AddItem(ctx, c, 9999, 1)
	assert.True(t, errors.Is(err, models.ErrProductNotFound))

	_, err = svc.AddItem(ctx, c, 1001, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidQuantity))

	_, err = svc.RemoveItem(ctx, c, 1001)
	assert.True(t, errors.Is(err, models.ErrLineNotFound))

	rejected := rec.Last(models.EventTypeOperationRejected).(*models.OperationRejectedEvent)
	assert.Equal(t, "remove_item", rejected.Operation)
	assert.Equal(t, "line_not_found", rejected.Reason)
	assert.Equal(t, int64(1001), rejected.ProductID)
	assert.Equal(t, models.CartKey(c.ID()), rejected.Key())
	assert.Len(t, rec.Events(), 3)
	assert.True(t, c.IsEmpty())
}

func TestCartCapacityComesFromService(t *testing.T) {
	svc := newTestService(t, report.Discard)
	ctx := context.Background()
	c := svc.NewCart()

	for _, id := range []int64{1001, 1002, 1003} {
		_, err := svc.AddItem(ctx, c, id, 1)
		require.NoError(t, err)
	}
	_, err := svc.AddItem(ctx, c, 1004, 1)
	assert.True(t, errors.Is(err, models.ErrCartFull))

	// an existing line can still grow
	_, err = svc.AddItem(ctx, c, 1001, 1)
	assert.NoError(t, err)
}

func TestPaymentRejectionKeyedByTransaction(t *testing.T) {
	rec := report.NewRecorder()
	svc := newTestService(t, rec)
	ctx := context.Background()

	txn := svc.CreateTransaction(ctx, svc.NewCart())
	_, err := svc.Pay(ctx, txn, dec("100"))
	assert.True(t, errors.Is(err, models.ErrEmptyCart))

	rejected := rec.Last(models.EventTypeOperationRejected).(*models.OperationRejectedEvent)
	assert.Equal(t, "empty_cart", rejected.Reason)
	assert.Equal(t, models.TransactionKey(txn.ID()), rejected.Key())
}

func TestDoubleCompletionReportsRejection(t *testing.T) {
	rec := report.NewRecorder()
	svc := newTestService(t, rec)
	ctx := context.Background()

	c := svc.NewCart()
	_, err := svc.AddItem(ctx, c, 1004, 2)
	require.NoError(t, err)
	txn := svc.CreateTransaction(ctx, c)
	_, err = svc.Pay(ctx, txn, dec("17"))
	require.NoError(t, err)
	_, err = svc.Complete(ctx, txn)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, txn)
	assert.True(t, errors.Is(err, models.ErrAlreadyCompleted))

	p, err := svc.Catalog().FindByID(1004)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	var sales int
	for _, typ := range rec.Types() {
		if typ == models.EventTypeSaleCompleted {
			sales++
		}
	}
	assert.Equal(t, 1, sales)
}

func TestSinkFailureDoesNotUndoSale(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	util.SetLogger(zap.New(core))
	t.Cleanup(func() { util.SetLogger(zap.NewNop()) })

	failing := report.SinkFunc(func(context.Context, models.Event) error {
		return errors.New("sink unavailable")
	})
	svc := newTestService(t, failing)
	ctx := context.Background()

	c := svc.NewCart()
	_, err := svc.AddItem(ctx, c, 1005, 1)
	require.NoError(t, err)
	txn := svc.CreateTransaction(ctx, c)
	_, err = svc.Pay(ctx, txn, dec("2"))
	require.NoError(t, err)
	_, err = svc.Complete(ctx, txn)
	require.NoError(t, err)
	assert.True(t, txn.IsCompleted())

	failures := logs.FilterMessage("Failed to report event").All()
	require.NotEmpty(t, failures)
	assert.Equal(t, models.EventTypeCartLineAdded, failures[0].ContextMap()["event_type"])
}
