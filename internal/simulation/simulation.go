package simulation

import (
	"context"

	"kiosk-service/internal/models"
	"kiosk-service/internal/service"
	"kiosk-service/internal/util"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTender is the amount the scripted customer hands over
var DefaultTender = decimal.RequireFromString("30.00")

// Order is one scripted add-to-cart request
type Order struct {
	ProductID int64
	Quantity  int
}

// Script is the scripted customer's basket, in the order items are added
var Script = []Order{
	{ProductID: 1001, Quantity: 2},
	{ProductID: 1003, Quantity: 1},
	{ProductID: 1004, Quantity: 1},
	{ProductID: 1001, Quantity: 1},
}

// Drill is the outcome of one error scenario
type Drill struct {
	Name   string
	Err    error
	Reason string
}

// Summary collects what a run produced
type Summary struct {
	Cart       models.CartSnapshot
	Completed  bool
	Receipt    models.Receipt
	Payment    models.PaymentResult
	PaymentErr error
	Drills     []Drill
}

// Run plays a full sale followed by the error drills
func Run(ctx context.Context, svc *service.SalesService, tender decimal.Decimal) (Summary, error) {
	logger := util.GetLogger()
	logger.Info("Starting sales simulation", zap.String("tender", tender.StringFixed(2)))

	var summary Summary
	svc.ListProducts(ctx)

	c := svc.NewCart()
	for _, o := range Script {
		// rejections are reported by the service and do not stop the run
		_, _ = svc.AddItem(ctx, c, o.ProductID, o.Quantity)
	}
	summary.Cart = svc.DescribeCart(ctx, c)

	txn := svc.CreateTransaction(ctx, c)
	summary.Payment, summary.PaymentErr = svc.Pay(ctx, txn, tender)
	if summary.PaymentErr == nil {
		receipt, err := svc.Complete(ctx, txn)
		if err != nil {
			return summary, errors.Wrap(err, "complete scripted sale")
		}
		summary.Receipt = receipt
		summary.Completed = true
	}

	svc.ListProducts(ctx)

	summary.Drills = append(summary.Drills,
		emptyCartDrill(ctx, svc),
		shortPaymentDrill(ctx, svc),
	)
	if summary.Completed {
		_, err := svc.Complete(ctx, txn)
		summary.Drills = append(summary.Drills, newDrill("double completion", err))
	}

	for _, d := range summary.Drills {
		logger.Info("Drill finished", zap.String("drill", d.Name), zap.String("reason", d.Reason))
	}
	return summary, nil
}

func newDrill(name string, err error) Drill {
	return Drill{Name: name, Err: err, Reason: models.Reason(err)}
}

func emptyCartDrill(ctx context.Context, svc *service.SalesService) Drill {
	txn := svc.CreateTransaction(ctx, svc.NewCart())
	_, err := svc.Pay(ctx, txn, decimal.RequireFromString("100.00"))
	return newDrill("empty cart", err)
}

func shortPaymentDrill(ctx context.Context, svc *service.SalesService) Drill {
	c := svc.NewCart()
	if _, err := svc.AddItem(ctx, c, 1001, 1); err != nil {
		return newDrill("insufficient payment", err)
	}
	txn := svc.CreateTransaction(ctx, c)
	_, err := svc.Pay(ctx, txn, decimal.RequireFromString("3.00"))
	return newDrill("insufficient payment", err)
}
