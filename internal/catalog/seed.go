package catalog

import (
	"os"

	"kiosk-service/internal/models"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultProducts returns the built-in kiosk assortment
func DefaultProducts() []models.Product {
	return []models.Product{
		{ID: 1001, Name: "Coca-Cola", Price: decimal.RequireFromString("3.50"), Stock: 10},
		{ID: 1002, Name: "Pepsi-Cola", Price: decimal.RequireFromString("3.50"), Stock: 8},
		{ID: 1003, Name: "Lay's Chips", Price: decimal.RequireFromString("6.00"), Stock: 15},
		{ID: 1004, Name: "Oreo Cookies", Price: decimal.RequireFromString("8.50"), Stock: 5},
		{ID: 1005, Name: "Mineral Water", Price: decimal.RequireFromString("2.00"), Stock: 20},
		{ID: 1006, Name: "Chocolate Bar", Price: decimal.RequireFromString("5.50"), Stock: 12},
	}
}

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
	Stock int    `yaml:"stock"`
}

// ParseSeed decodes a YAML product list:
//
//	products:
//	  - id: 1001
//	    name: Coca-Cola
//	    price: "3.50"
//	    stock: 10
func ParseSeed(data []byte) ([]models.Product, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.Wrap(err, "decode catalog seed")
	}
	if len(seed.Products) == 0 {
		return nil, errors.New("catalog seed has no products")
	}

	products := make([]models.Product, 0, len(seed.Products))
	for _, sp := range seed.Products {
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "product %d: price %q", sp.ID, sp.Price)
		}
		products = append(products, models.Product{
			ID:    sp.ID,
			Name:  sp.Name,
			Price: price,
			Stock: sp.Stock,
		})
	}
	return products, nil
}

// LoadFile builds a catalog from a YAML seed file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog seed")
	}
	products, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}
	return New(products)
}

// NewDefault builds a catalog from DefaultProducts
func NewDefault() *Catalog {
	c, err := New(DefaultProducts())
	if err != nil {
		panic(err)
	}
	return c
}
