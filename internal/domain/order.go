package domain

import "time"

// OrderStatusPaid is the only status the simulated payment flow writes.
const OrderStatusPaid = "Paid"

type Order struct {
	ID         string      `json:"orderId"`
	UserID     string      `json:"-"`
	TotalCents int64       `json:"totalCents"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"orderDate"`
	Lines      []OrderLine `json:"items,omitempty"`
}

// OrderLine snapshots quantity and unit price at checkout time; rows are
// immutable so history survives later catalog price changes.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"-"`
	ProductID      string `json:"productId"`
	Name           string `json:"name,omitempty"`
	Quantity       int    `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}
