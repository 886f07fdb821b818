package seed

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/pos-terminal/models"
)

type item struct {
	name     string
	price    string
	category string
	quantity int
}

var defaultCategories = []models.Category{
	{ID: "food", Name: "Food"},
	{ID: "drinks", Name: "Drinks"},
	{ID: "desserts", Name: "Desserts"},
	{ID: "snacks", Name: "Snacks"},
}

var defaultItems = []item{
	{"Cheese Burger", "5.99", "food", 50},
	{"Pizza Slice", "3.49", "food", 40},
	{"Chicken Wings", "7.99", "food", 30},
	{"Caesar Salad", "4.99", "food", 25},
	{"Pasta Carbonara", "8.99", "food", 20},

	{"Cola", "1.99", "drinks", 100},
	{"Lemonade", "2.49", "drinks", 80},
	{"Iced Tea", "1.99", "drinks", 90},
	{"Coffee", "2.99", "drinks", 100},

	{"Chocolate Cake", "4.99", "desserts", 15},
	{"Ice Cream", "3.99", "desserts", 20},
	{"Cheesecake", "5.49", "desserts", 10},

	{"French Fries", "2.99", "snacks", 40},
	{"Onion Rings", "3.49", "snacks", 30},
	{"Mozzarella Sticks", "4.49", "snacks", 25},
}

// Default returns the built-in demo menu. Product ids are freshly generated on
// every call.
func Default() *Catalog {
	products := make([]models.Product, 0, len(defaultItems))
	for _, it := range defaultItems {
		products = append(products, models.Product{
			ID:       uuid.NewString(),
			Name:     it.name,
			Price:    decimal.RequireFromString(it.price),
			Category: it.category,
			Quantity: it.quantity,
		})
	}
	return &Catalog{
		Products:   products,
		Categories: append([]models.Category(nil), defaultCategories...),
	}
}

// Load returns the catalog in path, or the default menu when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
