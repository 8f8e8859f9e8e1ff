package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// GuestOwner is the owner marker for orders placed by anonymous sessions.
const GuestOwner = "guest"

// statusTransitions is the legal transition table. Completed and cancelled
// are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

// ValidStatusTransition reports whether an order may move from one status
// to another.
func ValidStatusTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return OrderStatus(raw), nil
	default:
		return "", fmt.Errorf("status must be one of: pending, processing, completed, cancelled")
	}
}

// OrderItem is a cart line frozen into an order at checkout time.
type OrderItem struct {
	ID         int64  `json:"id,omitempty" db:"id"`
	OrderID    int64  `json:"order_id,omitempty" db:"order_id"`
	MenuItemID int64  `json:"menu_item_id" db:"menu_item_id"`
	Name       string `json:"name" db:"name"`
	Quantity   int    `json:"quantity" db:"quantity"`
	PriceCents int64  `json:"price_cents" db:"price_cents"`
}

// ContactDetails is the delivery information collected at checkout.
type ContactDetails struct {
	Name    string  `json:"name" db:"contact_name"`
	Phone   string  `json:"phone" db:"contact_phone"`
	Address string  `json:"address" db:"contact_address"`
	Notes   *string `json:"notes,omitempty" db:"contact_notes"`
}

// Order is an immutable snapshot of a cart at checkout time. Only the
// status field may change afterwards, and only through the transition table.
type Order struct {
	ID         int64          `json:"id,omitempty" db:"id"`
	Number     string         `json:"order_number" db:"number"`
	UserID     *int64         `json:"user_id,omitempty" db:"user_id"`
	Items      []OrderItem    `json:"items"`
	TotalCents int64          `json:"total_cents" db:"total_cents"`
	Status     OrderStatus    `json:"status" db:"status"`
	Contact    ContactDetails `json:"contact_details"`
	CreatedAt  time.Time      `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at,omitempty" db:"updated_at"`
}

// Owner returns the owning user id as a string, or the guest marker.
func (o *Order) Owner() string {
	if o.UserID == nil {
		return GuestOwner
	}
	return fmt.Sprintf("%d", *o.UserID)
}

// OwnedBy reports whether the order belongs to the given user id.
func (o *Order) OwnedBy(userID int64) bool {
	return o.UserID != nil && *o.UserID == userID
}

// CheckoutRequest is the payload that turns a cart into an order.
type CheckoutRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Notes   *string `json:"notes,omitempty"`
}

// Validate collects the missing required fields, if any.
func (req *CheckoutRequest) Validate() error {
	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Phone == "" {
		missing = append(missing, "phone")
	}
	if req.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ContactDetails converts the request into the stored contact record.
func (req *CheckoutRequest) ContactDetails() ContactDetails {
	return ContactDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
}

// CheckoutResponse is returned after a successful checkout.
type CheckoutResponse struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	TotalCents  int64  `json:"total_cents"`
}

// OrderStatusLog is one entry of an order's status history.
type OrderStatusLog struct {
	Status    OrderStatus `json:"status" db:"status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time   `json:"timestamp" db:"changed_at"`
	Notes     *string     `json:"notes,omitempty" db:"notes"`
}

// CalculatePriority maps an order total to a queue priority tier.
func CalculatePriority(totalCents int64) int {
	if totalCents > 10000 {
		return 10
	}
	if totalCents >= 5000 {
		return 5
	}
	return 1
}

// GenerateOrderNumber generates an order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	dateStr := date.Format("20060102")
	return fmt.Sprintf("ORD_%s_%03d", dateStr, sequence)
}
