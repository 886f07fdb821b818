package models

import "github.com/shopspring/decimal"

// CartLine is a product snapshot taken when the line was created plus the
// quantity being sold.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineFromProduct snapshots a product into a new cart line.
func LineFromProduct(p Product, quantity int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  quantity,
	}
}

// CartSummary is the cart as shown at the register.
type CartSummary struct {
	Lines    []CartLine      `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Payment  PaymentMethod   `json:"payment_method,omitempty"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
