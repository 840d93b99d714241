package domain

import "time"

// Events published to the fulfillment side after order writes.

type OrderCreatedEvent struct {
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	Timestamp  time.Time   `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

type OrderPaidEvent struct {
	OrderID          string    `json:"order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	TotalPrice       float64   `json:"total_price"`
	Timestamp        time.Time `json:"timestamp"`
}
