// Package cart accumulates purchase intent before checkout.
package cart

import (
	"kiosk-service/internal/models"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaxLines is the number of distinct products a cart holds when no
// capacity is configured.
const DefaultMaxLines = 20

// ProductLookup resolves live product data
type ProductLookup interface {
	FindByID(id int64) (models.Product, error)
}

// Cart is an ordered, bounded list of lines with a running total.
// It holds at most one line per product id.
type Cart struct {
	id       string
	lines    []models.CartLine
	total    decimal.Decimal
	maxLines int
}

// New creates an empty cart. maxLines <= 0 selects DefaultMaxLines.
func New(maxLines int) *Cart {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Cart{
		id:       uuid.New().String(),
		lines:    make([]models.CartLine, 0, maxLines),
		total:    decimal.Zero,
		maxLines: maxLines,
	}
}

// ID returns the cart identifier
func (c *Cart) ID() string { return c.id }

// MaxLines returns the cart capacity
func (c *Cart) MaxLines() int { return c.maxLines }

// Len returns the number of distinct lines
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Total returns the sum of all line subtotals
func (c *Cart) Total() decimal.Decimal { return c.total }

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID, if present
func (c *Cart) Line(productID int64) (models.CartLine, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i], true
	}
	return models.CartLine{}, false
}

// Snapshot returns a read-only view of the cart
func (c *Cart) Snapshot() models.CartSnapshot {
	return models.CartSnapshot{
		CartID:    c.id,
		Lines:     c.Lines(),
		LineCount: len(c.lines),
		MaxLines:  c.maxLines,
		Total:     c.total,
	}
}

// Clone returns an independent copy of the cart with the same id
func (c *Cart) Clone() *Cart {
	lines := make([]models.CartLine, len(c.lines), c.maxLines)
	copy(lines, c.lines)
	return &Cart{
		id:       c.id,
		lines:    lines,
		total:    c.total,
		maxLines: c.maxLines,
	}
}

// AddItem adds quantity units of a product. Stock is checked against the
// live catalog on every call and nothing is reserved; the cart is left
// unchanged when any check fails.
func (c *Cart) AddItem(lookup ProductLookup, productID int64, quantity int) (models.LineChange, error) {
	if quantity <= 0 {
		return models.LineChange{}, errors.Wrapf(models.ErrInvalidQuantity, "quantity %d must be greater than 0", quantity)
	}

	product, err := lookup.FindByID(productID)
	if err != nil {
		return models.LineChange{}, err
	}

	if product.Stock < quantity {
		return models.LineChange{}, errors.Wrapf(models.ErrInsufficientStock,
			"%s: current stock %d, requested %d", product.Name, product.Stock, quantity)
	}

	i := c.indexOf(productID)
	if i < 0 && len(c.lines) >= c.maxLines {
		return models.LineChange{}, errors.Wrapf(models.ErrCartFull, "%d of %d lines used", len(c.lines), c.maxLines)
	}

	action := models.LineActionUpdated
	if i >= 0 {
		line := &c.lines[i]
		c.total = c.total.Sub(line.Subtotal)
		line.Quantity += quantity
		line.Subtotal = line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		c.total = c.total.Add(line.Subtotal)
	} else {
		action = models.LineActionAdded
		line := models.CartLine{
			Product:  product,
			Quantity: quantity,
			Subtotal: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		c.lines = append(c.lines, line)
		c.total = c.total.Add(line.Subtotal)
		i = len(c.lines) - 1
	}

	return models.LineChange{
		CartID:    c.id,
		Action:    action,
		Line:      c.lines[i],
		Requested: quantity,
		CartTotal: c.total,
		LineCount: len(c.lines),
	}, nil
}

// RemoveItem drops the line for productID, keeping the order of the rest
func (c *Cart) RemoveItem(productID int64) (models.LineChange, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return models.LineChange{}, errors.Wrapf(models.ErrLineNotFound, "product id %d", productID)
	}

	removed := c.lines[i]
	c.total = c.total.Sub(removed.Subtotal)
	c.lines = append(c.lines[:i], c.lines[i+1:]...)

	return models.LineChange{
		CartID:    c.id,
		Action:    models.LineActionRemoved,
		Line:      removed,
		CartTotal: c.total,
		LineCount: len(c.lines),
	}, nil
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
