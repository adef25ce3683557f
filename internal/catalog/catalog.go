package catalog

import (
	"sync"

	"kiosk-service/internal/models"

	"github.com/go-faster/errors"
)

// Catalog is the single source of truth for products, prices and stock.
// Stock is only ever changed through DecrementStock and CommitSale.
type Catalog struct {
	mu       sync.RWMutex
	products []models.Product
	index    map[int64]int
}

// New creates a catalog from products, keeping their order
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
	}

	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			return nil, errors.Errorf("duplicate product id %d", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, errors.Errorf("product %d: negative price %s", p.ID, p.Price)
		}
		if p.Stock < 0 {
			return nil, errors.Errorf("product %d: negative stock %d", p.ID, p.Stock)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// FindByID returns the current state of a product
func (c *Catalog) FindByID(id int64) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return models.Product{}, errors.Wrapf(models.ErrProductNotFound, "product id %d", id)
	}
	return c.products[i], nil
}

// ListAll returns every product in definition order
func (c *Catalog) ListAll() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// DecrementStock takes quantity units of a product out of stock
func (c *Catalog) DecrementStock(id int64, quantity int) (models.StockChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, err := c.check(id, quantity)
	if err != nil {
		return models.StockChange{}, err
	}
	return c.apply(i, quantity), nil
}

// CommitSale applies every deduction or none of them. Deductions are
// validated against current stock before anything is written, so a rejected
// sale leaves the catalog untouched.
func (c *Catalog) CommitSale(deductions []models.StockDeduction) ([]models.StockChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	needed := make(map[int64]int, len(deductions))
	for _, d := range deductions {
		needed[d.ProductID] += d.Quantity
	}
	for _, d := range deductions {
		if d.Quantity <= 0 {
			return nil, errors.Wrapf(models.ErrInvalidQuantity, "product id %d: quantity %d", d.ProductID, d.Quantity)
		}
		if _, err := c.check(d.ProductID, needed[d.ProductID]); err != nil {
			return nil, err
		}
	}

	changes := make([]models.StockChange, 0, len(deductions))
	for _, d := range deductions {
		changes = append(changes, c.apply(c.index[d.ProductID], d.Quantity))
	}
	return changes, nil
}

// check must be called with mu held
func (c *Catalog) check(id int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errors.Wrapf(models.ErrInvalidQuantity, "product id %d: quantity %d", id, quantity)
	}
	i, ok := c.index[id]
	if !ok {
		return 0, errors.Wrapf(models.ErrProductNotFound, "product id %d", id)
	}
	if p := c.products[i]; p.Stock < quantity {
		return 0, errors.Wrapf(models.ErrInsufficientStock, "%s: available %d, requested %d", p.Name, p.Stock, quantity)
	}
	return i, nil
}

// apply must be called with mu held after check
func (c *Catalog) apply(i, quantity int) models.StockChange {
	p := &c.products[i]
	change := models.StockChange{
		ProductID: p.ID,
		Name:      p.Name,
		Before:    p.Stock,
	}
	p.Stock -= quantity
	change.After = p.Stock
	return change
}
