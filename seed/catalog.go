package seed

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/pos-terminal/models"
	"gopkg.in/yaml.v3"
)

// Catalog is the seed data handed to the POS service at startup.
type Catalog struct {
	Products   []models.Product
	Categories []models.Category
}

// catalogFile is the on-disk layout. JSON files parse too, JSON being a
// subset of YAML.
type catalogFile struct {
	Categories []models.Category `yaml:"categories"`
	Products   []productEntry    `yaml:"products"`
}

// productEntry keeps the price as text so it is parsed exactly instead of
// through float64.
type productEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Category string `yaml:"category"`
	Image    string `yaml:"image"`
	Quantity int    `yaml:"quantity"`
}

// LoadFile reads a catalog from a YAML or JSON file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog data. Unknown fields are rejected and
// products without an id get a generated one.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	catalog, err := file.toCatalog()
	if err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return catalog, nil
}

func (f catalogFile) toCatalog() (*Catalog, error) {
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("products list is required and must be non-empty")
	}

	known := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		if c.ID == "" {
			return nil, fmt.Errorf("categories[%d]: id is required", i)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("categories[%d]: name is required", i)
		}
		if known[c.ID] {
			return nil, fmt.Errorf("categories[%d]: duplicate id %q", i, c.ID)
		}
		known[c.ID] = true
	}

	seen := make(map[string]bool, len(f.Products))
	products := make([]models.Product, 0, len(f.Products))
	for i, e := range f.Products {
		if e.Name == "" {
			return nil, fmt.Errorf("products[%d]: name is required", i)
		}
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: invalid price %q: %w", i, e.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("products[%d]: price must be non-negative", i)
		}
		if e.Quantity < 0 {
			return nil, fmt.Errorf("products[%d]: quantity must be non-negative", i)
		}
		if len(known) > 0 && !known[e.Category] {
			return nil, fmt.Errorf("products[%d]: unknown category %q", i, e.Category)
		}

		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return nil, fmt.Errorf("products[%d]: duplicate id %q", i, id)
		}
		seen[id] = true

		products = append(products, models.Product{
			ID:       id,
			Name:     e.Name,
			Price:    price,
			Category: e.Category,
			Image:    e.Image,
			Quantity: e.Quantity,
		})
	}

	return &Catalog{Products: products, Categories: f.Categories}, nil
}
