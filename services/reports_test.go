package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/pos-terminal/models"
)

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestFilterProducts(t *testing.T) {
	h := newHarness(t)

	assert.Len(t, h.svc.FilterProducts(models.AllCategories, ""), 4)
	assert.Equal(t, []string{"Cola"}, names(h.svc.FilterProducts("drinks", "")))
	assert.Equal(t, []string{"Chocolate Cake"}, names(h.svc.FilterProducts("", "CAKE")))
	assert.Empty(t, h.svc.FilterProducts("drinks", "burger"))
}

func TestInventoryView_Sorting(t *testing.T) {
	h := newHarness(t)

	byName := h.svc.InventoryView(models.InventoryQuery{})
	assert.Equal(t, []string{"Cheese Burger", "Chocolate Cake", "Cola", "French Fries"}, names(byName))

	byPriceDesc := h.svc.InventoryView(models.InventoryQuery{SortBy: "price", Order: models.SortDesc})
	assert.Equal(t, []string{"Cheese Burger", "Chocolate Cake", "French Fries", "Cola"}, names(byPriceDesc))

	byQty := h.svc.InventoryView(models.InventoryQuery{SortBy: "quantity", Category: "all"})
	assert.Equal(t, []string{"French Fries", "Chocolate Cake", "Cheese Burger", "Cola"}, names(byQty))

	unknown := h.svc.InventoryView(models.InventoryQuery{SortBy: "colour"})
	assert.Equal(t, names(h.svc.Products()), names(unknown))
}

func TestInventoryStats(t *testing.T) {
	h := newHarness(t)

	stats := h.svc.InventoryStats()

	assert.Equal(t, 4, stats.ProductCount)
	assert.Equal(t, 2, stats.LowStockCount)
	assert.Equal(t, 153, stats.TotalUnits)
	// 5.99*50 + 1.99*100 + 4.99*3 + 2.99*0
	assert.Equal(t, "513.47", stats.StockValue.StringFixed(2))
}

func TestAdjustInventory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.AdjustInventory(ctx, "fries", 12))
	assert.Equal(t, 12, h.quantity(t, "fries"))
	assert.Equal(t, "Inventory updated for French Fries", h.notifier.last().Message)

	require.NoError(t, h.svc.AdjustInventory(ctx, "fries", -4))
	assert.Equal(t, 0, h.quantity(t, "fries"))

	h.notifier.reset()
	assert.Error(t, h.svc.AdjustInventory(ctx, "ghost", 5))
	assert.Empty(t, h.notifier.all())
}

func TestOrdersFilterAndCounts(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		require.NoError(t, h.svc.AddToCart(ctx, "cola"))
		o, err := h.svc.PlaceOrder(ctx, models.PaymentCash)
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	require.NoError(t, h.svc.CompleteOrder(ctx, ids[0]))
	require.NoError(t, h.svc.CancelOrder(ctx, ids[1]))

	counts := h.svc.OrderCounts()
	assert.Equal(t, models.OrderCounts{Pending: 1, Completed: 1, Cancelled: 1}, counts)

	assert.Len(t, h.svc.FilterOrders("all", ""), 3)
	pending := h.svc.FilterOrders(string(models.StatusPending), "")
	require.Len(t, pending, 1)
	assert.Equal(t, ids[2], pending[0].ID)

	byID := h.svc.FilterOrders("", strings.ToLower(ids[1]))
	require.Len(t, byID, 1)
	assert.Equal(t, ids[1], byID[0].ID)
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	place := func(id string) string {
		require.NoError(t, h.svc.AddToCart(ctx, id))
		o, err := h.svc.PlaceOrder(ctx, models.PaymentCard)
		require.NoError(t, err)
		return o.ID
	}

	first := place("burger")
	h.clock.Advance(2 * time.Hour)
	second := place("cola")
	place("cola")
	require.NoError(t, h.svc.CompleteOrder(ctx, first))
	require.NoError(t, h.svc.CompleteOrder(ctx, second))

	report := h.svc.Dashboard()

	assert.True(t, report.DayOpen)
	assert.Equal(t, 1, report.PendingOrders)
	assert.Equal(t, "7.98", report.TotalSales.StringFixed(2))
	require.Len(t, report.SalesByHour, 2)
	assert.Equal(t, 12, report.SalesByHour[0].Hour)
	assert.Equal(t, "5.99", report.SalesByHour[0].Sales.StringFixed(2))
	assert.Equal(t, 14, report.SalesByHour[1].Hour)
}

func TestKitchenQueue_Urgency(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	ctx := context.Background()

	require.NoError(t, h.svc.AddToCart(ctx, "burger"))
	oldest, err := h.svc.PlaceOrder(ctx, models.PaymentCash)
	require.NoError(t, err)
	h.clock.Advance(6 * time.Minute)
	require.NoError(t, h.svc.AddToCart(ctx, "cola"))
	_, err = h.svc.PlaceOrder(ctx, models.PaymentCash)
	require.NoError(t, err)
	h.clock.Advance(5 * time.Minute)

	queue := h.svc.KitchenQueue()

	require.Len(t, queue, 2)
	assert.Equal(t, oldest.ID, queue[0].Order.ID)
	assert.Equal(t, 11*time.Minute, queue[0].Elapsed)
	assert.Equal(t, models.UrgencyCritical, queue[0].Urgency)
	assert.Equal(t, models.UrgencyWarning, queue[1].Urgency)

	require.NoError(t, h.svc.CompleteOrder(ctx, oldest.ID))
	assert.Len(t, h.svc.KitchenQueue(), 1)
}
