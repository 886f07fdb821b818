package models

import "github.com/shopspring/decimal"

// Product is a sellable catalog entry. Quantity is the on-hand stock.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
}

// InStock reports whether at least one unit is on hand.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// StockValue is price multiplied by on-hand quantity.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// AdjustInventoryRequest is the body of an inventory correction.
type AdjustInventoryRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
