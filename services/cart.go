package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// TaxRate is the fixed surcharge added on top of the cart total for display
// and payment.
var TaxRate = decimal.NewFromFloat(0.10)

// WithTax returns amount plus tax, unrounded.
func WithTax(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(TaxRate))
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// AddToCart adds one unit of the product to the cart.
func (s *POSService) AddToCart(ctx context.Context, productID string) error {
	return s.mutate(ctx, func() error {
		p := s.productLocked(productID)
		if p == nil {
			return ErrNotFound
		}
		if !s.day.Open {
			return s.reject(withMessage(ErrDayClosed, "Business day is closed. Open the day to add items."),
				zap.String("product_id", productID))
		}
		if err := s.cartFrozenLocked(); err != nil {
			return err
		}
		if !p.InStock() {
			return s.reject(withMessage(ErrOutOfStock, "%s is out of stock", p.Name),
				zap.String("product_id", productID))
		}

		if i := s.cartIndexLocked(productID); i >= 0 {
			if s.cart[i].Quantity+1 > p.Quantity {
				return s.reject(withMessage(ErrInsufficientStock, "Not enough inventory for %s", p.Name),
					zap.String("product_id", productID),
					zap.Int("in_cart", s.cart[i].Quantity),
					zap.Int("on_hand", p.Quantity),
				)
			}
			s.cart[i].Quantity++
		} else {
			s.cart = append(s.cart, models.LineFromProduct(*p, 1))
		}

		s.dirty = true
		s.notifyLocked(models.SeveritySuccess, "Added "+p.Name+" to cart")
		s.logger.Info("Item added to cart", zap.String("product_id", productID))
		return nil
	})
}

// RemoveFromCart deletes the product's line. A missing line is a no-op.
func (s *POSService) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutate(ctx, func() error {
		if !s.day.Open {
			return s.reject(ErrDayClosed, zap.String("product_id", productID))
		}
		if err := s.cartFrozenLocked(); err != nil {
			return err
		}
		s.removeLineLocked(productID)
		return nil
	})
}

func (s *POSService) removeLineLocked(productID string) {
	i := s.cartIndexLocked(productID)
	if i < 0 {
		return
	}
	s.cart = append(s.cart[:i], s.cart[i+1:]...)
	s.dirty = true
	s.notifyLocked(models.SeveritySuccess, "Item removed from cart")
	s.logger.Info("Item removed from cart", zap.String("product_id", productID))
}

// UpdateCartItemQuantity overwrites a line's quantity. Zero or less removes
// the line; more than the product has on hand is rejected.
func (s *POSService) UpdateCartItemQuantity(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, func() error {
		if !s.day.Open {
			return s.reject(ErrDayClosed, zap.String("product_id", productID))
		}
		if err := s.cartFrozenLocked(); err != nil {
			return err
		}
		if quantity <= 0 {
			s.removeLineLocked(productID)
			return nil
		}
		i := s.cartIndexLocked(productID)
		if i < 0 {
			return ErrNotFound
		}
		p := s.productLocked(productID)
		if p == nil || quantity > p.Quantity {
			return s.reject(withMessage(ErrInsufficientStock, "Not enough inventory for %s", s.cart[i].Name),
				zap.String("product_id", productID),
				zap.Int("requested", quantity),
			)
		}
		s.cart[i].Quantity = quantity
		s.dirty = true
		return nil
	})
}

// ClearCart empties the cart and forgets the selected payment method.
func (s *POSService) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func() error {
		if err := s.cartFrozenLocked(); err != nil {
			return err
		}
		s.clearCartLocked()
		return nil
	})
}

func (s *POSService) clearCartLocked() {
	s.cart = nil
	s.selection.Payment = ""
	s.dirty = true
}

// cartFrozenLocked rejects cart changes while a payment session has priced
// the cart and not yet finished.
func (s *POSService) cartFrozenLocked() error {
	if s.activePayment == "" {
		return nil
	}
	return s.reject(withMessage(ErrPaymentInProgress, "A payment is being processed. Cancel it to change the cart."),
		zap.String("payment_id", s.activePayment))
}

// Cart returns a copy of the cart lines.
func (s *POSService) Cart() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.cart...)
}

// CartTotal is the sum of price times quantity over the cart, before tax.
func (s *POSService) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartTotalLocked()
}

// CartSummary returns the lines with subtotal, tax and taxed total rounded to
// cents.
func (s *POSService) CartSummary() models.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartSummaryLocked()
}

func (s *POSService) cartTotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.cart {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *POSService) cartSummaryLocked() models.CartSummary {
	subtotal := s.cartTotalLocked()
	return models.CartSummary{
		Lines:    append([]models.CartLine{}, s.cart...),
		Subtotal: subtotal,
		Tax:      RoundCents(subtotal.Mul(TaxRate)),
		Total:    RoundCents(WithTax(subtotal)),
		Payment:  s.selection.Payment,
	}
}

func (s *POSService) cartIndexLocked(productID string) int {
	for i, l := range s.cart {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
