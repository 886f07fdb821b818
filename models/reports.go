package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type HourlySales struct {
	Hour  int             `json:"hour"`
	Sales decimal.Decimal `json:"sales"`
}

type DashboardReport struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	PendingOrders int             `json:"pending_orders"`
	DayOpen       bool            `json:"day_open"`
	SalesByHour   []HourlySales   `json:"sales_by_hour"`
}

type InventoryStats struct {
	ProductCount  int             `json:"product_count"`
	LowStockCount int             `json:"low_stock_count"`
	StockValue    decimal.Decimal `json:"stock_value"`
	TotalUnits    int             `json:"total_units"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// InventoryQuery filters and sorts the inventory table.
type InventoryQuery struct {
	Search   string    `form:"search"`
	Category string    `form:"category"`
	SortBy   string    `form:"sort"`
	Order    SortOrder `form:"order"`
}

type OrderCounts struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

// KitchenTicket is a pending order as shown on the kitchen display.
type KitchenTicket struct {
	Order          Order         `json:"order"`
	Elapsed        time.Duration `json:"-"`
	ElapsedSeconds int64         `json:"elapsed_seconds"`
	Urgency        Urgency       `json:"urgency"`
}
