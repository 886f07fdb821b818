package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Order is a placed sale. Items and Total are frozen at placement.
type Order struct {
	ID            string          `json:"id"`
	Items         []CartLine      `json:"items"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Timestamp     time.Time       `json:"timestamp"`
	TableNumber   int             `json:"table_number,omitempty"`
	SentToKitchen bool            `json:"sent_to_kitchen"`
}

// Clone returns a deep copy so callers never share the item slice.
func (o Order) Clone() Order {
	o.Items = append([]CartLine(nil), o.Items...)
	return o
}

type PlaceOrderRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// OrderEventType names an order lifecycle transition published to downstream
// consumers such as kitchen displays.
type OrderEventType string

const (
	EventOrderPlaced        OrderEventType = "order_placed"
	EventOrderSentToKitchen OrderEventType = "order_sent_to_kitchen"
	EventOrderCompleted     OrderEventType = "order_completed"
	EventOrderCancelled     OrderEventType = "order_cancelled"
	EventOrderModified      OrderEventType = "order_modified"
)

type OrderEvent struct {
	Event     OrderEventType `json:"event"`
	Order     Order          `json:"order"`
	Timestamp time.Time      `json:"timestamp"`
}
