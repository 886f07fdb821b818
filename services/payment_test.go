package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/pos-terminal/models"
	"github.com/yashrajoria/pos-terminal/services"
)

func cartOf1795(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	require.NoError(t, h.svc.UpdateCartItemQuantity(ctx, "burger", 2))
	require.NoError(t, h.svc.AddToCart(ctx, "cola"))
	require.NoError(t, h.svc.UpdateCartItemQuantity(ctx, "cola", 3))
}

func TestBeginPayment_CashWithChange(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	cartOf1795(t, h)
	paid := dec("20.00")

	session, err := h.svc.BeginPayment(context.Background(), models.PaymentCash, &paid)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentProcessing, session.Status)
	assert.Equal(t, "19.75", session.AmountDue.StringFixed(2))
	assert.Equal(t, "0.25", session.Change.StringFixed(2))
	assert.Empty(t, h.svc.Orders(), "order is placed only after the processing delay")
	assert.Equal(t, models.PaymentCash, h.svc.Selection().Payment)

	h.scheduler.fireAll()

	got, ok := h.svc.Payment(session.ID)
	require.True(t, ok)
	assert.Equal(t, models.PaymentCompleted, got.Status)
	require.NotEmpty(t, got.OrderID)
	require.NotNil(t, got.FinishedAt)

	order, ok := h.svc.Order(got.OrderID)
	require.True(t, ok)
	assert.Equal(t, "17.95", order.Total.StringFixed(2))
	assert.Equal(t, models.PaymentCash, order.PaymentMethod)
	assert.Empty(t, h.svc.Cart())
	assert.Contains(t, h.notifier.last().Message, "has been paid")
}

func TestBeginPayment_CashShort(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	cartOf1795(t, h)
	paid := dec("19.74")

	_, err := h.svc.BeginPayment(context.Background(), models.PaymentCash, &paid)

	assert.True(t, errors.Is(err, services.ErrPaymentInsufficient))
	assert.Equal(t, services.ErrPaymentInsufficient.Message, h.notifier.last().Message)
	assert.Zero(t, h.scheduler.pending())
	assert.Len(t, h.svc.Cart(), 2)
}

func TestBeginPayment_CardIgnoresTendered(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	cartOf1795(t, h)
	paid := decimal.Zero

	session, err := h.svc.BeginPayment(context.Background(), models.PaymentCard, &paid)
	require.NoError(t, err)

	assert.True(t, session.AmountPaid.Equal(session.AmountDue))
	assert.True(t, session.Change.IsZero())
}

func TestBeginPayment_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		h := newHarness(t)
		h.open(t)
		_, err := h.svc.BeginPayment(ctx, models.PaymentQR, nil)
		assert.True(t, errors.Is(err, services.ErrCartEmpty))
		assert.Equal(t, "Please add items to your cart first", h.notifier.last().Message)
	})

	t.Run("day closed", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.BeginPayment(ctx, models.PaymentQR, nil)
		assert.True(t, errors.Is(err, services.ErrDayClosed))
	})

	t.Run("invalid method", func(t *testing.T) {
		h := newHarness(t)
		h.open(t)
		cartOf1795(t, h)
		_, err := h.svc.BeginPayment(ctx, models.PaymentMethod("barter"), nil)
		assert.True(t, errors.Is(err, services.ErrInvalidPayment))
	})

	t.Run("already processing", func(t *testing.T) {
		h := newHarness(t)
		h.open(t)
		cartOf1795(t, h)
		_, err := h.svc.BeginPayment(ctx, models.PaymentQR, nil)
		require.NoError(t, err)

		_, err = h.svc.BeginPayment(ctx, models.PaymentCard, nil)
		assert.True(t, errors.Is(err, services.ErrPaymentInProgress))
	})
}

func TestCancelPayment_PreventsOrder(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	cartOf1795(t, h)
	ctx := context.Background()
	session, err := h.svc.BeginPayment(ctx, models.PaymentQR, nil)
	require.NoError(t, err)

	require.NoError(t, h.svc.CancelPayment(ctx, session.ID))
	h.scheduler.fireAll()

	got, _ := h.svc.Payment(session.ID)
	assert.Equal(t, models.PaymentCancelled, got.Status)
	assert.Empty(t, h.svc.Orders())
	assert.Len(t, h.svc.Cart(), 2)

	assert.True(t, errors.Is(h.svc.CancelPayment(ctx, session.ID), services.ErrPaymentClosed))
	assert.True(t, errors.Is(h.svc.CancelPayment(ctx, "nope"), services.ErrNotFound))

	// A new payment can start once the previous one is closed.
	_, err = h.svc.BeginPayment(ctx, models.PaymentCard, nil)
	assert.NoError(t, err)
}

func TestFinishPayment_FailsWhenDayClosedMeanwhile(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	cartOf1795(t, h)
	ctx := context.Background()
	session, err := h.svc.BeginPayment(ctx, models.PaymentCard, nil)
	require.NoError(t, err)
	require.NoError(t, h.svc.CloseDay(ctx))

	h.scheduler.fireAll()

	got, _ := h.svc.Payment(session.ID)
	assert.Equal(t, models.PaymentFailed, got.Status)
	assert.NotEmpty(t, got.Error)
	assert.Empty(t, h.svc.Orders())
}

func TestBeginPayment_FreezesCartUntilFinished(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()
	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	paid := dec("10.00")
	session, err := h.svc.BeginPayment(ctx, models.PaymentCash, &paid)
	require.NoError(t, err)

	frozen := map[string]error{
		"add":    h.svc.AddToCart(ctx, "burger"),
		"update": h.svc.UpdateCartItemQuantity(ctx, "burger", 5),
		"remove": h.svc.RemoveFromCart(ctx, "burger"),
		"clear":  h.svc.ClearCart(ctx),
	}
	_, frozen["place"] = h.svc.PlaceOrder(ctx, models.PaymentCash)
	for name, err := range frozen {
		assert.True(t, errors.Is(err, services.ErrPaymentInProgress), "%s: got %v", name, err)
	}
	assert.Equal(t, models.SeverityError, h.notifier.last().Severity)
	assert.Contains(t, h.notifier.last().Message, "payment is being processed")

	h.scheduler.fireAll()

	got, _ := h.svc.Payment(session.ID)
	require.Equal(t, models.PaymentCompleted, got.Status)
	order, ok := h.svc.Order(got.OrderID)
	require.True(t, ok)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, got.AmountDue.String(), services.RoundCents(services.WithTax(order.Total)).String())
	assert.Equal(t, "3.41", got.Change.StringFixed(2))

	// The cart is editable again once the payment has finished.
	assert.NoError(t, h.svc.AddToCart(ctx, "cola"))
}

func TestModifyOrder_RejectedDuringPayment(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()
	require.NoError(t, h.svc.AddToCart(ctx, "cola"))
	placed, err := h.svc.PlaceOrder(ctx, models.PaymentCard)
	require.NoError(t, err)
	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	_, err = h.svc.BeginPayment(ctx, models.PaymentQR, nil)
	require.NoError(t, err)

	err = h.svc.ModifyOrder(ctx, placed.ID)

	assert.True(t, errors.Is(err, services.ErrPaymentInProgress))
	_, ok := h.svc.Order(placed.ID)
	assert.True(t, ok)
	assert.Equal(t, 99, h.quantity(t, "cola"))
}
