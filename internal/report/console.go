package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"kiosk-service/internal/models"

	"github.com/shopspring/decimal"
)

// Console renders events as the kiosk's operator console text
type Console struct {
	mu  sync.Mutex
	out io.Writer
	// transaction whose inventory header has been printed
	inventoryTxn int64
}

// NewConsole creates a console sink writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (c *Console) Emit(_ context.Context, event models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	switch e := event.(type) {
	case *models.ProductListingEvent:
		renderProducts(&buf, e.Products)
	case *models.CartLineEvent:
		switch e.EventType {
		case models.EventTypeCartLineAdded:
			fmt.Fprintf(&buf, "Added: %s x%d (%s)\n", e.Name, e.Quantity, money(e.Subtotal))
		case models.EventTypeCartLineUpdated:
			fmt.Fprintf(&buf, "Updated: %s quantity increased to %d\n", e.Name, e.Quantity)
		case models.EventTypeCartLineRemoved:
			fmt.Fprintf(&buf, "Removed product ID %d from cart\n", e.ProductID)
		}
	case *models.CartSnapshotEvent:
		renderCart(&buf, e.CartSnapshot)
	case *models.TransactionCreatedEvent:
		fmt.Fprintf(&buf, "Transaction #%d created\n", e.TransactionID)
	case *models.PaymentAcceptedEvent:
		fmt.Fprintf(&buf, "\nPayment Successful!\n")
		fmt.Fprintf(&buf, "Amount Due: %s\n", money(e.AmountDue))
		fmt.Fprintf(&buf, "Amount Paid: %s\n", money(e.AmountPaid))
		fmt.Fprintf(&buf, "Change: %s\n", money(e.Change))
	case *models.OperationRejectedEvent:
		fmt.Fprintf(&buf, "Error: %s\n", e.Message)
	case *models.InventoryUpdatedEvent:
		if c.inventoryTxn != e.TransactionID {
			c.inventoryTxn = e.TransactionID
			fmt.Fprintf(&buf, "\nUpdating inventory...\n")
		}
		fmt.Fprintf(&buf, "  %s inventory updated: %d -> %d\n", e.Name, e.Before, e.After)
	case *models.SaleCompletedEvent:
		renderReceipt(&buf, e.Receipt)
	default:
		return nil
	}

	_, err := c.out.Write(buf.Bytes())
	return err
}

func renderProducts(buf *bytes.Buffer, products []models.Product) {
	fmt.Fprintf(buf, "\n========== Product List ==========\n")
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tProduct Name\tPrice\tStock")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Name, money(p.Price), p.Stock)
	}
	tw.Flush()
	fmt.Fprintf(buf, "========================================\n")
}

func renderCart(buf *bytes.Buffer, cart models.CartSnapshot) {
	if cart.LineCount == 0 {
		fmt.Fprintf(buf, "\nShopping cart is empty\n")
		return
	}

	fmt.Fprintf(buf, "\n========== Shopping cart contents ==========\n")
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tProduct Name\tUnit Price\tQuantity\tSubtotal")
	for _, l := range cart.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			l.Product.ID, l.Product.Name, money(l.Product.Price), l.Quantity, money(l.Subtotal))
	}
	tw.Flush()
	fmt.Fprintf(buf, "------------------------------------------------\n")
	fmt.Fprintf(buf, "Product Categories: %d items\n", cart.LineCount)
	fmt.Fprintf(buf, "Shopping Cart Total: %s\n", money(cart.Total))
	fmt.Fprintf(buf, "================================\n")
}

func renderReceipt(buf *bytes.Buffer, r models.Receipt) {
	fmt.Fprintf(buf, "\n========== Transaction completed ==========\n")
	fmt.Fprintf(buf, "Transaction ID: #%d\n", r.TransactionID)
	fmt.Fprintf(buf, "Created: %s\n", r.CreatedAt.Format(time.ANSIC))
	fmt.Fprintf(buf, "Completion Time: %s\n", r.CompletedAt.Format(time.ANSIC))
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	for _, l := range r.Lines {
		fmt.Fprintf(tw, "  %s\tx%d\t%s\n", l.Product.Name, l.Quantity, money(l.Subtotal))
	}
	tw.Flush()
	fmt.Fprintf(buf, "Total Items: %d\n", r.ItemCount)
	fmt.Fprintf(buf, "Total Amount: %s\n", money(r.Total))
	fmt.Fprintf(buf, "Amount Paid: %s\n", money(r.AmountPaid))
	fmt.Fprintf(buf, "Change: %s\n", money(r.Change))
	fmt.Fprintf(buf, "==============================\n\n")
}
