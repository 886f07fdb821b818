package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// BeginPayment starts a simulated payment for the current cart. The amount
// due is the taxed cart total rounded to cents. Cash must cover it; card and
// QR are charged exactly. After the payment delay the order is placed once,
// unless CancelPayment is called first. A nil amountPaid means exact payment.
func (s *POSService) BeginPayment(ctx context.Context, method models.PaymentMethod, amountPaid *decimal.Decimal) (models.PaymentSession, error) {
	var session models.PaymentSession
	err := s.mutate(ctx, func() error {
		if !s.day.Open {
			return s.reject(withMessage(ErrDayClosed, "Business day is closed. Open the day to take payments."))
		}
		if len(s.cart) == 0 {
			return s.reject(withMessage(ErrCartEmpty, "Please add items to your cart first"))
		}
		if !method.Valid() {
			return s.reject(withMessage(ErrInvalidPayment, "Unsupported payment method %q", method))
		}
		if s.activePayment != "" {
			return s.reject(ErrPaymentInProgress, zap.String("payment_id", s.activePayment))
		}

		due := RoundCents(WithTax(s.cartTotalLocked()))
		paid := due
		if method == models.PaymentCash && amountPaid != nil {
			paid = *amountPaid
		}
		if paid.LessThan(due) {
			return s.reject(ErrPaymentInsufficient,
				zap.String("due", due.StringFixed(2)),
				zap.String("paid", paid.StringFixed(2)),
			)
		}

		p := &models.PaymentSession{
			ID:         uuid.NewString(),
			Method:     method,
			AmountDue:  due,
			AmountPaid: paid,
			Change:     paid.Sub(due),
			Status:     models.PaymentProcessing,
			StartedAt:  s.clock.Now(),
		}
		s.payments[p.ID] = p
		s.activePayment = p.ID
		s.selection.Payment = method
		s.dirty = true

		id := p.ID
		s.paymentTask = s.scheduler.AfterFunc(s.paymentDelay, func() {
			s.finishPayment(id)
		})

		s.logger.Info("Payment processing",
			zap.String("payment_id", id),
			zap.String("method", string(method)),
			zap.String("due", due.StringFixed(2)),
			zap.String("change", p.Change.StringFixed(2)),
		)
		session = *p
		return nil
	})
	return session, err
}

// finishPayment places the order for a payment whose delay has elapsed.
func (s *POSService) finishPayment(paymentID string) {
	_ = s.mutate(context.Background(), func() error {
		p, ok := s.payments[paymentID]
		if !ok || p.Status != models.PaymentProcessing || s.activePayment != paymentID {
			return nil
		}
		s.activePayment = ""
		s.paymentTask = nil

		now := s.clock.Now()
		p.FinishedAt = &now
		s.dirty = true

		order, err := s.placeOrderLocked(p.Method)
		if err != nil {
			p.Status = models.PaymentFailed
			p.Error = err.Error()
			s.logger.Warn("Payment could not be finalized", zap.String("payment_id", paymentID), zap.Error(err))
			return nil
		}
		p.Status = models.PaymentCompleted
		p.OrderID = order.ID
		s.notifyLocked(models.SeveritySuccess, fmt.Sprintf("Order #%s has been paid and sent to the kitchen", order.ID))
		return nil
	})
}

// CancelPayment abandons a payment that is still processing; its order is
// never placed.
func (s *POSService) CancelPayment(ctx context.Context, paymentID string) error {
	return s.mutate(ctx, func() error {
		p, ok := s.payments[paymentID]
		if !ok {
			return ErrNotFound
		}
		if p.Status != models.PaymentProcessing {
			return s.reject(ErrPaymentClosed, zap.String("payment_id", paymentID))
		}
		if s.paymentTask != nil {
			s.paymentTask.Stop()
			s.paymentTask = nil
		}
		s.activePayment = ""

		now := s.clock.Now()
		p.Status = models.PaymentCancelled
		p.FinishedAt = &now
		s.dirty = true
		s.logger.Info("Payment cancelled", zap.String("payment_id", paymentID))
		return nil
	})
}

// Payment looks up a payment session by id.
func (s *POSService) Payment(id string) (models.PaymentSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return models.PaymentSession{}, false
	}
	return *p, true
}
