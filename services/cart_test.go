package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/pos-terminal/models"
	"github.com/yashrajoria/pos-terminal/services"
)

func TestCart_TotalAndTax(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	require.NoError(t, h.svc.AddToCart(ctx, "cola"))
	require.NoError(t, h.svc.UpdateCartItemQuantity(ctx, "burger", 2))
	require.NoError(t, h.svc.UpdateCartItemQuantity(ctx, "cola", 3))

	assert.True(t, dec("17.95").Equal(h.svc.CartTotal()), "got %s", h.svc.CartTotal())
	assert.True(t, dec("19.745").Equal(services.WithTax(h.svc.CartTotal())))

	summary := h.svc.CartSummary()
	assert.Equal(t, "19.75", summary.Total.StringFixed(2))
	assert.Equal(t, "1.80", summary.Tax.StringFixed(2))
	assert.Len(t, summary.Lines, 2)
}

func TestCart_AddIncrementsExistingLine(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	require.NoError(t, h.svc.AddToCart(ctx, "burger"))

	cart := h.svc.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "Cheese Burger", cart[0].Name)
	assert.Equal(t, models.SeveritySuccess, h.notifier.last().Severity)
}

func TestCart_AddOutOfStockFails(t *testing.T) {
	h := newHarness(t)
	h.open(t)

	err := h.svc.AddToCart(context.Background(), "fries")

	assert.True(t, errors.Is(err, services.ErrOutOfStock))
	assert.Empty(t, h.svc.Cart())
	assert.Equal(t, models.SeverityError, h.notifier.last().Severity)
	assert.Contains(t, h.notifier.last().Message, "out of stock")
}

func TestCart_AddBeyondStockFails(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, h.svc.AddToCart(ctx, "cake"))
	}
	err := h.svc.AddToCart(ctx, "cake")

	assert.True(t, errors.Is(err, services.ErrInsufficientStock))
	cart := h.svc.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.Contains(t, h.notifier.last().Message, "Not enough inventory")
}

func TestCart_UnknownProductIsSilent(t *testing.T) {
	h := newHarness(t)
	h.open(t)

	err := h.svc.AddToCart(context.Background(), "ghost")

	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.Empty(t, h.notifier.all())
}

func TestCart_PriceIsSnapshotAtAddTime(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	require.NoError(t, h.svc.Seed(ctx, []models.Product{product("burger", "Renamed", "9.99", "food", 50)}, defaultCategories()))

	cart := h.svc.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "Cheese Burger", cart[0].Name)
	assert.True(t, dec("5.99").Equal(cart[0].Price))
}

func TestCart_UpdateQuantity(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()
	require.NoError(t, h.svc.AddToCart(ctx, "cake"))

	err := h.svc.UpdateCartItemQuantity(ctx, "cake", 4)
	assert.True(t, errors.Is(err, services.ErrInsufficientStock))
	assert.Equal(t, 1, h.svc.Cart()[0].Quantity)

	require.NoError(t, h.svc.UpdateCartItemQuantity(ctx, "cake", 3))
	assert.Equal(t, 3, h.svc.Cart()[0].Quantity)

	require.NoError(t, h.svc.UpdateCartItemQuantity(ctx, "cake", 0))
	assert.Empty(t, h.svc.Cart())
}

func TestCart_UpdateQuantityForMissingLine(t *testing.T) {
	h := newHarness(t)
	h.open(t)

	err := h.svc.UpdateCartItemQuantity(context.Background(), "burger", 2)

	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.Empty(t, h.svc.Cart())
}

func TestCart_RemoveLine(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()
	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	require.NoError(t, h.svc.AddToCart(ctx, "cola"))

	require.NoError(t, h.svc.RemoveFromCart(ctx, "burger"))
	require.NoError(t, h.svc.RemoveFromCart(ctx, "burger"))

	cart := h.svc.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "cola", cart[0].ProductID)
}

func TestCart_ClearResetsPayment(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()
	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	require.NoError(t, h.svc.SelectPayment(ctx, models.PaymentCard))

	require.NoError(t, h.svc.ClearCart(ctx))

	assert.Empty(t, h.svc.Cart())
	assert.Empty(t, h.svc.Selection().Payment)
	assert.True(t, h.svc.CartTotal().IsZero())
}

func TestCart_LinesNeverExceedStock(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	ops := []func() error{
		func() error { return h.svc.AddToCart(ctx, "cake") },
		func() error { return h.svc.AddToCart(ctx, "cake") },
		func() error { return h.svc.UpdateCartItemQuantity(ctx, "cake", 5) },
		func() error { return h.svc.AddToCart(ctx, "cake") },
		func() error { return h.svc.AddToCart(ctx, "cake") },
		func() error { return h.svc.UpdateCartItemQuantity(ctx, "cake", 2) },
	}
	for _, op := range ops {
		if err := op(); err != nil {
			continue
		}
		for _, l := range h.svc.Cart() {
			assert.LessOrEqual(t, l.Quantity, h.quantity(t, l.ProductID))
		}
	}
}
