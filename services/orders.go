package services

import (
	"context"
	"fmt"

	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// PlaceOrder turns the cart into a pending order paid with method, or with the
// selected payment method when method is empty. Stock is decremented for every
// line, the cart is cleared and the order is routed to the kitchen after the
// kitchen delay.
func (s *POSService) PlaceOrder(ctx context.Context, method models.PaymentMethod) (models.Order, error) {
	var placed models.Order
	err := s.mutate(ctx, func() error {
		if err := s.cartFrozenLocked(); err != nil {
			return err
		}
		o, err := s.placeOrderLocked(method)
		placed = o
		return err
	})
	return placed, err
}

func (s *POSService) placeOrderLocked(method models.PaymentMethod) (models.Order, error) {
	if !s.day.Open {
		return models.Order{}, s.reject(withMessage(ErrDayClosed, "Business day is closed. Open the day to place orders."))
	}
	if len(s.cart) == 0 {
		return models.Order{}, s.reject(ErrCartEmpty)
	}
	if method == "" {
		method = s.selection.Payment
	}
	if method == "" {
		return models.Order{}, s.reject(ErrNoPaymentMethod)
	}
	if !method.Valid() {
		return models.Order{}, s.reject(withMessage(ErrInvalidPayment, "Unsupported payment method %q", method))
	}
	for _, l := range s.cart {
		p := s.productLocked(l.ProductID)
		if p == nil || p.Quantity < l.Quantity {
			return models.Order{}, s.reject(withMessage(ErrInsufficientStock, "Not enough inventory for %s", l.Name),
				zap.String("product_id", l.ProductID),
				zap.Int("requested", l.Quantity),
			)
		}
	}

	now := s.clock.Now()
	order := models.Order{
		ID:            s.nextOrderIDLocked(now.UnixMilli()),
		Items:         append([]models.CartLine(nil), s.cart...),
		Status:        models.StatusPending,
		Total:         s.cartTotalLocked(),
		PaymentMethod: method,
		Timestamp:     now,
		TableNumber:   s.tableNumber(),
	}

	for _, l := range order.Items {
		p := s.productLocked(l.ProductID)
		s.setQuantityLocked(p, p.Quantity-l.Quantity)
	}
	s.orders = append(s.orders, order)
	s.clearCartLocked()

	id := order.ID
	s.kitchenTasks[id] = s.scheduler.AfterFunc(s.kitchenDelay, func() {
		s.autoSendToKitchen(id)
	})

	s.notifyLocked(models.SeveritySuccess, fmt.Sprintf("Order #%s placed successfully", id))
	s.emitLocked(models.EventOrderPlaced, order)
	s.logger.Info("Order placed",
		zap.String("order_id", id),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("payment_method", string(method)),
		zap.Int("items", len(order.Items)),
		zap.Int("table", order.TableNumber),
	)
	return order.Clone(), nil
}

// nextOrderIDLocked derives an id from the placement millisecond, bumped past
// the previous one so ids never collide.
func (s *POSService) nextOrderIDLocked(ms int64) string {
	if ms <= s.lastOrderMillis {
		ms = s.lastOrderMillis + 1
	}
	s.lastOrderMillis = ms
	return fmt.Sprintf("ORD-%d", ms)
}

// CompleteOrder marks a pending order completed.
func (s *POSService) CompleteOrder(ctx context.Context, orderID string) error {
	return s.mutate(ctx, func() error {
		if !s.day.Open {
			return s.reject(withMessage(ErrDayClosed, "Business day is closed. Open the day to complete orders."),
				zap.String("order_id", orderID))
		}
		o := s.orderLocked(orderID)
		if o == nil {
			return ErrNotFound
		}
		if o.Status != models.StatusPending {
			return s.reject(withMessage(ErrOrderNotPending, "Order #%s is already %s", orderID, o.Status),
				zap.String("order_id", orderID))
		}
		s.stopKitchenTaskLocked(orderID)
		o.Status = models.StatusCompleted
		s.dirty = true
		s.notifyLocked(models.SeveritySuccess, fmt.Sprintf("Order #%s completed", orderID))
		s.emitLocked(models.EventOrderCompleted, *o)
		s.logger.Info("Order completed", zap.String("order_id", orderID))
		return nil
	})
}

// CancelOrder returns a pending order's units to stock and marks it
// cancelled. It is allowed while the day is closed.
func (s *POSService) CancelOrder(ctx context.Context, orderID string) error {
	return s.mutate(ctx, func() error {
		o := s.orderLocked(orderID)
		if o == nil {
			return ErrNotFound
		}
		if o.Status != models.StatusPending {
			return s.reject(withMessage(ErrOrderNotPending, "Order #%s is already %s", orderID, o.Status),
				zap.String("order_id", orderID))
		}
		s.stopKitchenTaskLocked(orderID)
		s.restoreLocked(o.Items)
		o.Status = models.StatusCancelled
		s.dirty = true
		s.notifyLocked(models.SeverityInfo, fmt.Sprintf("Order #%s cancelled", orderID))
		s.emitLocked(models.EventOrderCancelled, *o)
		s.logger.Info("Order cancelled", zap.String("order_id", orderID))
		return nil
	})
}

// ModifyOrder pulls a pending order back into the cart for editing: its units
// return to stock, its lines replace the cart and the order is removed from
// the ledger. The caller re-places it when done.
func (s *POSService) ModifyOrder(ctx context.Context, orderID string) error {
	return s.mutate(ctx, func() error {
		if !s.day.Open {
			return s.reject(withMessage(ErrDayClosed, "Business day is closed. Open the day to modify orders."),
				zap.String("order_id", orderID))
		}
		i := s.orderIndexLocked(orderID)
		if i < 0 {
			return ErrNotFound
		}
		o := s.orders[i]
		if o.Status != models.StatusPending {
			return s.reject(withMessage(ErrOrderNotPending, "Order #%s is already %s", orderID, o.Status),
				zap.String("order_id", orderID))
		}
		if err := s.cartFrozenLocked(); err != nil {
			return err
		}
		s.stopKitchenTaskLocked(orderID)
		s.restoreLocked(o.Items)
		s.cart = append([]models.CartLine(nil), o.Items...)
		s.orders = append(s.orders[:i], s.orders[i+1:]...)
		s.dirty = true
		s.notifyLocked(models.SeverityInfo, fmt.Sprintf("Modifying order #%s", orderID))
		s.emitLocked(models.EventOrderModified, o)
		s.logger.Info("Order moved back to cart", zap.String("order_id", orderID))
		return nil
	})
}

// SendToKitchen flags the order as routed to the kitchen.
func (s *POSService) SendToKitchen(ctx context.Context, orderID string) error {
	return s.mutate(ctx, func() error {
		o := s.orderLocked(orderID)
		if o == nil {
			return ErrNotFound
		}
		s.stopKitchenTaskLocked(orderID)
		s.markSentLocked(o)
		return nil
	})
}

// autoSendToKitchen is the deferred follow-up of PlaceOrder. It does nothing
// when the order is gone or no longer pending.
func (s *POSService) autoSendToKitchen(orderID string) {
	_ = s.mutate(context.Background(), func() error {
		delete(s.kitchenTasks, orderID)
		o := s.orderLocked(orderID)
		if o == nil || o.Status != models.StatusPending {
			s.logger.Debug("Skipping kitchen routing", zap.String("order_id", orderID))
			return nil
		}
		s.markSentLocked(o)
		return nil
	})
}

func (s *POSService) markSentLocked(o *models.Order) {
	if o.SentToKitchen {
		return
	}
	o.SentToKitchen = true
	s.dirty = true
	s.notifyLocked(models.SeverityInfo, fmt.Sprintf("Order #%s sent to kitchen", o.ID))
	s.emitLocked(models.EventOrderSentToKitchen, *o)
	s.logger.Info("Order sent to kitchen", zap.String("order_id", o.ID), zap.Int("table", o.TableNumber))
}

func (s *POSService) stopKitchenTaskLocked(orderID string) {
	if t, ok := s.kitchenTasks[orderID]; ok {
		t.Stop()
		delete(s.kitchenTasks, orderID)
	}
}

// Orders returns every order in placement order.
func (s *POSService) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

// Order looks up an order by id.
func (s *POSService) Order(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orderLocked(id)
	if o == nil {
		return models.Order{}, false
	}
	return o.Clone(), true
}

func (s *POSService) orderLocked(id string) *models.Order {
	if i := s.orderIndexLocked(id); i >= 0 {
		return &s.orders[i]
	}
	return nil
}

func (s *POSService) orderIndexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}
