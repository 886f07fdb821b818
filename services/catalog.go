package services

import (
	"context"

	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// Seed replaces the catalog wholesale. It is meant to be called once, at
// construction.
func (s *POSService) Seed(ctx context.Context, products []models.Product, categories []models.Category) error {
	if err := validateSeed(products, categories); err != nil {
		return err
	}
	return s.mutate(ctx, func() error {
		s.products = append([]models.Product(nil), products...)
		s.categories = append([]models.Category(nil), categories...)
		s.productIdx = make(map[string]int, len(products))
		for i, p := range s.products {
			s.productIdx[p.ID] = i
		}
		s.dirty = true
		s.logger.Info("Catalog seeded",
			zap.Int("products", len(products)),
			zap.Int("categories", len(categories)),
		)
		return nil
	})
}

// validateSeed checks ids, prices and quantities. When categories are given,
// every product must belong to one of them.
func validateSeed(products []models.Product, categories []models.Category) error {
	if len(products) == 0 {
		return withMessage(ErrInvalidSeed, "Seed catalog has no products")
	}
	seenCat := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.ID == "" {
			return withMessage(ErrInvalidSeed, "Category %q has no id", c.Name)
		}
		if seenCat[c.ID] {
			return withMessage(ErrInvalidSeed, "Duplicate category id %q", c.ID)
		}
		seenCat[c.ID] = true
	}
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		switch {
		case p.ID == "":
			return withMessage(ErrInvalidSeed, "Product %q has no id", p.Name)
		case seen[p.ID]:
			return withMessage(ErrInvalidSeed, "Duplicate product id %q", p.ID)
		case p.Price.IsNegative():
			return withMessage(ErrInvalidSeed, "Product %q has a negative price", p.ID)
		case p.Quantity < 0:
			return withMessage(ErrInvalidSeed, "Product %q has a negative quantity", p.ID)
		case len(categories) > 0 && !seenCat[p.Category]:
			return withMessage(ErrInvalidSeed, "Product %q has unknown category %q", p.ID, p.Category)
		}
		seen[p.ID] = true
	}
	return nil
}

// Products returns every product in catalog order.
func (s *POSService) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// Categories returns every category.
func (s *POSService) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.categories...)
}

// Product looks up a product by id.
func (s *POSService) Product(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.productLocked(id)
	if p == nil {
		return models.Product{}, false
	}
	return *p, true
}

func (s *POSService) productLocked(id string) *models.Product {
	i, ok := s.productIdx[id]
	if !ok {
		return nil
	}
	return &s.products[i]
}

// AdjustInventory sets a product's on-hand quantity. Negative values clamp to
// zero. An unknown product is a silent no-op reported as ErrNotFound.
func (s *POSService) AdjustInventory(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, func() error {
		p := s.productLocked(productID)
		if p == nil {
			return ErrNotFound
		}
		if quantity < 0 {
			quantity = 0
		}
		s.setQuantityLocked(p, quantity)
		s.notifyLocked(models.SeverityInfo, "Inventory updated for "+p.Name)
		return nil
	})
}

func (s *POSService) setQuantityLocked(p *models.Product, quantity int) {
	prev := p.Quantity
	p.Quantity = quantity
	s.dirty = true
	s.logger.Info("Inventory adjusted",
		zap.String("product_id", p.ID),
		zap.Int("previous", prev),
		zap.Int("quantity", quantity),
	)
}

// restoreLocked puts the units of lines back on hand. Lines whose product is
// no longer in the catalog are skipped.
func (s *POSService) restoreLocked(lines []models.CartLine) {
	for _, l := range lines {
		if p := s.productLocked(l.ProductID); p != nil {
			s.setQuantityLocked(p, p.Quantity+l.Quantity)
		}
	}
}
