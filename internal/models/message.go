package models

import (
	"fmt"
	"time"
)

// OrderPlacedMessage is published to the orders topic exchange at checkout.
type OrderPlacedMessage struct {
	OrderNumber string      `json:"order_number"`
	Owner       string      `json:"owner"`
	Items       []OrderItem `json:"items"`
	TotalCents  int64       `json:"total_cents"`
	Priority    int         `json:"priority"`
	PlacedAt    time.Time   `json:"placed_at"`
}

// StatusUpdateMessage is broadcast on the notifications fanout exchange when
// an order changes status.
type StatusUpdateMessage struct {
	OrderNumber string    `json:"order_number"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	ChangedBy   string    `json:"changed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderPlacedMessage builds the event for a freshly created order.
func NewOrderPlacedMessage(order *Order) *OrderPlacedMessage {
	return &OrderPlacedMessage{
		OrderNumber: order.Number,
		Owner:       order.Owner(),
		Items:       order.Items,
		TotalCents:  order.TotalCents,
		Priority:    CalculatePriority(order.TotalCents),
		PlacedAt:    time.Now().UTC(),
	}
}

// NewStatusUpdateMessage builds the notification for a status change.
func NewStatusUpdateMessage(orderNumber string, oldStatus, newStatus OrderStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderNumber: orderNumber,
		OldStatus:   string(oldStatus),
		NewStatus:   string(newStatus),
		ChangedBy:   changedBy,
		Timestamp:   time.Now().UTC(),
	}
}

// OrderRoutingKey generates the routing key for order placed events.
func OrderRoutingKey(priority int) string {
	return fmt.Sprintf("orders.placed.%d", priority)
}
