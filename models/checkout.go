package models

import "time"

// CheckoutEvent is published after an order has been materialized, e.g.
// "checkout.requested". Downstream services (inventory, payment,
// notifications) consume it; delivery is best-effort.
type CheckoutEvent struct {
	Event       string     `json:"event"`
	OrderID     string     `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	UserID      string     `json:"user_id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	Timestamp   time.Time  `json:"timestamp"`
}
