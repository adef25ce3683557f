package service

import (
	"context"
	"fmt"
	"testing"

	"kiosk-service/internal/cart"
	"kiosk-service/internal/catalog"
	"kiosk-service/internal/models"
	"kiosk-service/internal/report"
	"kiosk-service/internal/transaction"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type checkoutWorld struct {
	svc     *SalesService
	cart    *cart.Cart
	txn     *transaction.Transaction
	result  models.PaymentResult
	lastErr error
}

func (w *checkoutWorld) defaultCatalog() error {
	cat, err := catalog.New(catalog.DefaultProducts())
	if err != nil {
		return err
	}
	w.svc = NewSalesService(cat, report.Discard, 0, WithSequence(transaction.NewSequence(0)))
	w.cart = w.svc.NewCart()
	w.txn = nil
	w.lastErr = nil
	return nil
}

func (w *checkoutWorld) addItem(quantity int, productID int64) error {
	_, w.lastErr = w.svc.AddItem(context.Background(), w.cart, productID, quantity)
	return nil
}

func (w *checkoutWorld) removeItem(productID int64) error {
	_, w.lastErr = w.svc.RemoveItem(context.Background(), w.cart, productID)
	return nil
}

func (w *checkoutWorld) cartTotalIs(expected string) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !w.cart.Total().Equal(want) {
		return fmt.Errorf("cart total is %s, expected %s", w.cart.Total().StringFixed(2), expected)
	}
	return nil
}

func (w *checkoutWorld) cartHasLines(n int) error {
	if w.cart.Len() != n {
		return fmt.Errorf("cart has %d lines, expected %d", w.cart.Len(), n)
	}
	return nil
}

func (w *checkoutWorld) createTransaction() error {
	w.txn = w.svc.CreateTransaction(context.Background(), w.cart)
	return nil
}

func (w *checkoutWorld) pay(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	w.result, w.lastErr = w.svc.Pay(context.Background(), w.txn, d)
	return nil
}

func (w *checkoutWorld) complete() error {
	_, w.lastErr = w.svc.Complete(context.Background(), w.txn)
	return nil
}

func (w *checkoutWorld) operationFails(reason string) error {
	if got := models.Reason(w.lastErr); got != reason {
		return fmt.Errorf("last operation reason is %q, expected %q", got, reason)
	}
	return nil
}

func (w *checkoutWorld) changeIs(expected string) error {
	if w.lastErr != nil {
		return fmt.Errorf("payment failed: %w", w.lastErr)
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !w.result.Change.Equal(want) {
		return fmt.Errorf("change is %s, expected %s", w.result.Change.StringFixed(2), expected)
	}
	return nil
}

func (w *checkoutWorld) productHasStock(productID int64, stock int) error {
	p, err := w.svc.Catalog().FindByID(productID)
	if err != nil {
		return err
	}
	if p.Stock != stock {
		return fmt.Errorf("product %d has stock %d, expected %d", productID, p.Stock, stock)
	}
	return nil
}

func initializeCheckoutScenario(sc *godog.ScenarioContext) {
	w := &checkoutWorld{}

	sc.Step(`^a catalog with the default products$`, w.defaultCatalog)
	sc.Step(`^I add (\d+) of product (\d+) to the cart$`, w.addItem)
	sc.Step(`^I remove product (\d+) from the cart$`, w.removeItem)
	sc.Step(`^the cart total is "([^"]*)"$`, w.cartTotalIs)
	sc.Step(`^the cart has (\d+) lines$`, w.cartHasLines)
	sc.Step(`^I create a transaction$`, w.createTransaction)
	sc.Step(`^I pay "([^"]*)"$`, w.pay)
	sc.Step(`^I complete the transaction$`, w.complete)
	sc.Step(`^the operation fails with reason "([^"]*)"$`, w.operationFails)
	sc.Step(`^the change is "([^"]*)"$`, w.changeIs)
	sc.Step(`^product (\d+) has stock (\d+)$`, w.productHasStock)
}

func TestCheckoutFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "checkout",
		ScenarioInitializer: initializeCheckoutScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
