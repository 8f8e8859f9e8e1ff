package order

import (
	"context"
	"fmt"
	"time"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

// Repository persists the order ledger.
type Repository interface {
	NextDailySequence(ctx context.Context, date time.Time) (int, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order, newStatus models.OrderStatus, changedBy string) error
	GetStatusHistory(ctx context.Context, number string) ([]models.OrderStatusLog, error)
}

// Carts is the slice of the cart store checkout needs.
type Carts interface {
	Get(ctx context.Context, ownerKey string) (*models.Cart, error)
	Delete(ctx context.Context, ownerKey string) error
}

// Publisher emits order events to the message broker.
type Publisher interface {
	PublishOrder(ctx context.Context, orderMsg interface{}, routingKey string, priority uint8) error
	PublishNotification(ctx context.Context, notificationMsg interface{}) error
}

// Service owns checkout and the order ledger. Orders are immutable snapshots;
// only the status moves, and only along the transition table.
type Service struct {
	repo      Repository
	carts     Carts
	publisher Publisher
	logger    *logger.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, carts Carts, publisher Publisher, log *logger.Logger) *Service {
	return &Service{repo: repo, carts: carts, publisher: publisher, logger: log}
}

// Checkout freezes the caller's cart into a pending order, clears the cart
// and announces the order on the broker. The broker publish is best-effort:
// a committed order is never rolled back because messaging is down.
func (s *Service) Checkout(ctx context.Context, session *models.Session, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ownerKey := session.CartOwnerKey()
	cart, err := s.carts.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	now := time.Now().UTC()
	sequence, err := s.repo.NextDailySequence(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	order := &models.Order{
		Number:     models.GenerateOrderNumber(now, sequence),
		UserID:     userIDRef(session),
		Items:      orderItemsFromCart(cart),
		TotalCents: cart.TotalCents(),
		Status:     models.StatusPending,
		Contact:    req.ContactDetails(),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.carts.Delete(ctx, ownerKey); err != nil {
		s.logger.Error("cart_clear_failed", "Failed to clear cart after checkout", "",
			err, map[string]interface{}{"order_number": order.Number})
	}

	msg := models.NewOrderPlacedMessage(order)
	routingKey := models.OrderRoutingKey(msg.Priority)
	if err := s.publisher.PublishOrder(ctx, msg, routingKey, uint8(msg.Priority)); err != nil {
		s.logger.Error("order_publish_failed", "Failed to publish order placed event", "",
			err, map[string]interface{}{"order_number": order.Number})
	}

	s.logger.Info("order_created", "Order created", "", map[string]interface{}{
		"order_number": order.Number,
		"owner":        order.Owner(),
		"total_cents":  order.TotalCents,
	})

	return &models.CheckoutResponse{
		OrderNumber: order.Number,
		Status:      string(order.Status),
		TotalCents:  order.TotalCents,
	}, nil
}

// GetOrder returns one order, only to callers allowed to see it. Strangers
// get not-found rather than forbidden so order numbers are not probeable.
func (s *Service) GetOrder(ctx context.Context, session *models.Session, number string) (*models.Order, error) {
	order, err := s.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !canAccess(session, order) {
		return nil, models.ErrNotFound
	}
	return order, nil
}

// GetOrderHistory returns the status log, under the same guard as GetOrder.
func (s *Service) GetOrderHistory(ctx context.Context, session *models.Session, number string) ([]models.OrderStatusLog, error) {
	if _, err := s.GetOrder(ctx, session, number); err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, number)
}

// ListUserOrders returns the caller's own orders, newest first. Anonymous
// callers get an empty list.
func (s *Service) ListUserOrders(ctx context.Context, session *models.Session) ([]models.Order, error) {
	if !session.IsAuthenticated() {
		return []models.Order{}, nil
	}
	orders, err := s.repo.ListOrdersByUser(ctx, session.UserID())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ListAllOrders returns every order in the ledger. Admin only.
func (s *Service) ListAllOrders(ctx context.Context, session *models.Session) ([]models.Order, error) {
	if !session.IsAdmin() {
		return nil, models.ErrForbidden
	}
	orders, err := s.repo.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// UpdateStatus moves an order along the transition table. Admin only; an
// illegal move is rejected before anything is written.
func (s *Service) UpdateStatus(ctx context.Context, session *models.Session, number string, newStatus models.OrderStatus) (*models.Order, error) {
	if !session.IsAdmin() {
		return nil, models.ErrForbidden
	}

	order, err := s.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if !models.ValidStatusTransition(oldStatus, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, oldStatus, newStatus)
	}

	changedBy := session.User.Email
	if err := s.repo.UpdateStatus(ctx, order, newStatus, changedBy); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = newStatus

	msg := models.NewStatusUpdateMessage(number, oldStatus, newStatus, changedBy)
	if err := s.publisher.PublishNotification(ctx, msg); err != nil {
		s.logger.Error("status_publish_failed", "Failed to publish status update", "",
			err, map[string]interface{}{"order_number": number})
	}

	s.logger.Info("order_status_updated", "Order status updated", "", map[string]interface{}{
		"order_number": number,
		"old_status":   oldStatus,
		"new_status":   newStatus,
		"changed_by":   changedBy,
	})

	return order, nil
}

// canAccess is the single read guard for the ledger: admins see everything,
// guest orders are retrievable by number (possession of the number is the
// credential) and user orders only by their owner.
func canAccess(session *models.Session, order *models.Order) bool {
	if session.IsAdmin() {
		return true
	}
	if order.UserID == nil {
		return true
	}
	return session.IsAuthenticated() && order.OwnedBy(session.UserID())
}

func userIDRef(session *models.Session) *int64 {
	if !session.IsAuthenticated() {
		return nil
	}
	id := session.UserID()
	return &id
}

func orderItemsFromCart(cart *models.Cart) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
		})
	}
	return items
}
