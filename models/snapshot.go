package models

import "time"

type ViewType string

const (
	ViewDashboard ViewType = "dashboard"
	ViewOrders    ViewType = "orders"
	ViewKitchen   ViewType = "kitchen"
	ViewInventory ViewType = "inventory"
)

// Valid reports whether v names a known screen.
func (v ViewType) Valid() bool {
	switch v {
	case ViewDashboard, ViewOrders, ViewKitchen, ViewInventory:
		return true
	}
	return false
}

// Selection is the terminal's UI selection state.
type Selection struct {
	Category   string        `json:"category"`
	SearchTerm string        `json:"search_term"`
	Payment    PaymentMethod `json:"payment_method,omitempty"`
	ActiveView ViewType      `json:"active_view"`
}

// SelectionUpdate carries optional selection changes; nil fields are left as is.
type SelectionUpdate struct {
	Category   *string        `json:"category"`
	SearchTerm *string        `json:"search_term"`
	Payment    *PaymentMethod `json:"payment_method"`
	ActiveView *ViewType      `json:"active_view"`
}

// Snapshot is a consistent copy of the whole terminal state.
type Snapshot struct {
	Products    []Product   `json:"products"`
	Categories  []Category  `json:"categories"`
	Cart        CartSummary `json:"cart"`
	Orders      []Order     `json:"orders"`
	Day         BusinessDay `json:"day"`
	CurrentTime time.Time   `json:"current_time"`
	Selection   Selection   `json:"selection"`
	Currency    string      `json:"currency"`
}
