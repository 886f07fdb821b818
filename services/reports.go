package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yashrajoria/pos-terminal/models"
)

// Kitchen ticket urgency thresholds.
const (
	KitchenWarningAfter  = 5 * time.Minute
	KitchenCriticalAfter = 10 * time.Minute
)

// FilterProducts returns products in category (or any category for "all" or
// empty) whose name contains term, case-insensitively.
func (s *POSService) FilterProducts(category, term string) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterProducts(s.products, category, term)
}

func filterProducts(products []models.Product, category, term string) []models.Product {
	term = strings.ToLower(term)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.AllCategories && p.Category != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// InventoryView filters the catalog like FilterProducts and sorts it by
// name, price, quantity or category. Unknown sort keys keep catalog order.
func (s *POSService) InventoryView(q models.InventoryQuery) []models.Product {
	s.mu.Lock()
	out := filterProducts(s.products, q.Category, q.Search)
	s.mu.Unlock()

	less := productLess(q.SortBy)
	if less == nil {
		return out
	}
	desc := q.Order == models.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func productLess(key string) func(a, b models.Product) bool {
	switch key {
	case "", "name":
		return func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "price":
		return func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case "quantity":
		return func(a, b models.Product) bool { return a.Quantity < b.Quantity }
	case "category":
		return func(a, b models.Product) bool { return a.Category < b.Category }
	}
	return nil
}

// InventoryStats summarises stock across the whole catalog.
func (s *POSService) InventoryStats() models.InventoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.InventoryStats{
		ProductCount: len(s.products),
		StockValue:   decimal.Zero,
	}
	for _, p := range s.products {
		if p.Quantity < s.lowStock {
			stats.LowStockCount++
		}
		stats.StockValue = stats.StockValue.Add(p.StockValue())
		stats.TotalUnits += p.Quantity
	}
	return stats
}

// FilterOrders returns orders with status (any for "all" or empty) whose id
// contains query, case-insensitively.
func (s *POSService) FilterOrders(status, query string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if status != "" && status != "all" && string(o.Status) != status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(o.ID), query) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out
}

// OrderCounts tallies orders by status.
func (s *POSService) OrderCounts() models.OrderCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c models.OrderCounts
	for _, o := range s.orders {
		switch o.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusCompleted:
			c.Completed++
		case models.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

// Dashboard reports completed sales, pending orders and sales per local hour.
// Hours without sales are omitted.
func (s *POSService) Dashboard() models.DashboardReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hours [24]decimal.Decimal
	report := models.DashboardReport{
		TotalSales:  decimal.Zero,
		DayOpen:     s.day.Open,
		SalesByHour: []models.HourlySales{},
	}
	for _, o := range s.orders {
		switch o.Status {
		case models.StatusPending:
			report.PendingOrders++
		case models.StatusCompleted:
			report.TotalSales = report.TotalSales.Add(o.Total)
			h := o.Timestamp.In(s.loc).Hour()
			hours[h] = hours[h].Add(o.Total)
		}
	}
	for h, sales := range hours {
		if sales.IsPositive() {
			report.SalesByHour = append(report.SalesByHour, models.HourlySales{Hour: h, Sales: sales})
		}
	}
	return report
}

// KitchenQueue lists pending orders oldest first with their waiting time.
func (s *POSService) KitchenQueue() []models.KitchenTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	tickets := make([]models.KitchenTicket, 0)
	for _, o := range s.orders {
		if o.Status != models.StatusPending {
			continue
		}
		elapsed := now.Sub(o.Timestamp)
		if elapsed < 0 {
			elapsed = 0
		}
		tickets = append(tickets, models.KitchenTicket{
			Order:          o.Clone(),
			Elapsed:        elapsed,
			ElapsedSeconds: int64(elapsed / time.Second),
			Urgency:        urgencyFor(elapsed),
		})
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].Order.Timestamp.Before(tickets[j].Order.Timestamp)
	})
	return tickets
}

func urgencyFor(elapsed time.Duration) models.Urgency {
	switch {
	case elapsed >= KitchenCriticalAfter:
		return models.UrgencyCritical
	case elapsed >= KitchenWarningAfter:
		return models.UrgencyWarning
	}
	return models.UrgencyNormal
}
