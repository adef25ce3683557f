package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kiosk-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidProducts(t *testing.T) {
	_, err := New([]models.Product{
		{ID: 1, Name: "A", Price: decimal.NewFromInt(1), Stock: 1},
		{ID: 1, Name: "B", Price: decimal.NewFromInt(1), Stock: 1},
	})
	assert.Error(t, err)

	_, err = New([]models.Product{{ID: 1, Name: "A", Price: decimal.NewFromInt(-1), Stock: 1}})
	assert.Error(t, err)

	_, err = New([]models.Product{{ID: 1, Name: "A", Price: decimal.Zero, Stock: -1}})
	assert.Error(t, err)
}

func TestFindByID(t *testing.T) {
	c := NewDefault()

	p, err := c.FindByID(1001)
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola", p.Name)
	assert.True(t, decimal.RequireFromString("3.50").Equal(p.Price))
	assert.Equal(t, 10, p.Stock)

	_, err = c.FindByID(9999)
	assert.True(t, errors.Is(err, models.ErrProductNotFound))
}

func TestListAllKeepsDefinitionOrder(t *testing.T) {
	c := NewDefault()
	products := c.ListAll()

	require.Len(t, products, 6)
	for i, id := range []int64{1001, 1002, 1003, 1004, 1005, 1006} {
		assert.Equal(t, id, products[i].ID)
	}

	// the listing is a copy
	products[0].Stock = 0
	p, _ := c.FindByID(1001)
	assert.Equal(t, 10, p.Stock)
}

func TestDecrementStock(t *testing.T) {
	c := NewDefault()

	change, err := c.DecrementStock(1004, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StockChange{ProductID: 1004, Name: "Oreo Cookies", Before: 5, After: 3}, change)
	assert.Equal(t, 2, change.Sold())

	_, err = c.DecrementStock(1004, 4)
	assert.True(t, errors.Is(err, models.ErrInsufficientStock))

	_, err = c.DecrementStock(1004, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidQuantity))

	_, err = c.DecrementStock(42, 1)
	assert.True(t, errors.Is(err, models.ErrProductNotFound))

	p, _ := c.FindByID(1004)
	assert.Equal(t, 3, p.Stock)
}

func TestCommitSaleIsAllOrNothing(t *testing.T) {
	c := NewDefault()

	_, err := c.CommitSale([]models.StockDeduction{
		{ProductID: 1001, Quantity: 2},
		{ProductID: 1004, Quantity: 6},
	})
	assert.True(t, errors.Is(err, models.ErrInsufficientStock))

	p, _ := c.FindByID(1001)
	assert.Equal(t, 10, p.Stock, "first deduction must not be applied")

	changes, err := c.CommitSale([]models.StockDeduction{
		{ProductID: 1001, Quantity: 2},
		{ProductID: 1004, Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, 8, changes[0].After)
	assert.Equal(t, 0, changes[1].After)
}

func TestCommitSaleAggregatesRepeatedProducts(t *testing.T) {
	c := NewDefault()

	_, err := c.CommitSale([]models.StockDeduction{
		{ProductID: 1004, Quantity: 3},
		{ProductID: 1004, Quantity: 3},
	})
	assert.True(t, errors.Is(err, models.ErrInsufficientStock))

	p, _ := c.FindByID(1004)
	assert.Equal(t, 5, p.Stock)
}

func TestParseSeed(t *testing.T) {
	data := []byte(`
products:
  - id: 7
    name: Green Tea
    price: "4.25"
    stock: 3
  - id: 8
    name: Gum
    price: "0.99"
    stock: 40
`)
	products, err := ParseSeed(data)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Green Tea", products[0].Name)
	assert.True(t, decimal.RequireFromString("4.25").Equal(products[0].Price))
	assert.Equal(t, 40, products[1].Stock)

	_, err = ParseSeed([]byte("products: []"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte(`products: [{id: 1, name: X, price: "abc", stock: 1}]`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - {id: 1, name: Apple, price: \"1.10\", stock: 2}\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
