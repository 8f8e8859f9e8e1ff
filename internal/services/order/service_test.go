package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

type fakeRepo struct {
	NextDailySequenceFn func(ctx context.Context, date time.Time) (int, error)
	CreateOrderFn       func(ctx context.Context, order *models.Order) error
	GetOrderByNumberFn  func(ctx context.Context, number string) (*models.Order, error)
	ListOrdersByUserFn  func(ctx context.Context, userID int64) ([]models.Order, error)
	ListAllOrdersFn     func(ctx context.Context) ([]models.Order, error)
	UpdateStatusFn      func(ctx context.Context, order *models.Order, newStatus models.OrderStatus, changedBy string) error
	GetStatusHistoryFn  func(ctx context.Context, number string) ([]models.OrderStatusLog, error)
}

func (f *fakeRepo) NextDailySequence(ctx context.Context, date time.Time) (int, error) {
	if f.NextDailySequenceFn == nil {
		return 1, nil
	}
	return f.NextDailySequenceFn(ctx, date)
}
func (f *fakeRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if f.CreateOrderFn == nil {
		order.ID = 1
		return nil
	}
	return f.CreateOrderFn(ctx, order)
}
func (f *fakeRepo) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	return f.GetOrderByNumberFn(ctx, number)
}
func (f *fakeRepo) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return f.ListOrdersByUserFn(ctx, userID)
}
func (f *fakeRepo) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return f.ListAllOrdersFn(ctx)
}
func (f *fakeRepo) UpdateStatus(ctx context.Context, order *models.Order, newStatus models.OrderStatus, changedBy string) error {
	if f.UpdateStatusFn == nil {
		return nil
	}
	return f.UpdateStatusFn(ctx, order, newStatus, changedBy)
}
func (f *fakeRepo) GetStatusHistory(ctx context.Context, number string) ([]models.OrderStatusLog, error) {
	if f.GetStatusHistoryFn == nil {
		return []models.OrderStatusLog{}, nil
	}
	return f.GetStatusHistoryFn(ctx, number)
}

type fakeCarts struct {
	cart    *models.Cart
	deleted []string
}

func (f *fakeCarts) Get(ctx context.Context, ownerKey string) (*models.Cart, error) {
	if f.cart == nil {
		return &models.Cart{}, nil
	}
	return f.cart, nil
}
func (f *fakeCarts) Delete(ctx context.Context, ownerKey string) error {
	f.deleted = append(f.deleted, ownerKey)
	return nil
}

type fakePublisher struct {
	orders        []interface{}
	notifications []interface{}
	orderErr      error
}

func (f *fakePublisher) PublishOrder(ctx context.Context, msg interface{}, routingKey string, priority uint8) error {
	if f.orderErr != nil {
		return f.orderErr
	}
	f.orders = append(f.orders, msg)
	return nil
}
func (f *fakePublisher) PublishNotification(ctx context.Context, msg interface{}) error {
	f.notifications = append(f.notifications, msg)
	return nil
}

func customerSession(id int64) *models.Session {
	return &models.Session{
		Token: "tok",
		User:  &models.User{ID: id, Email: "casey@example.com", Role: models.RoleCustomer},
	}
}

func adminSession() *models.Session {
	return &models.Session{
		Token: "admin-tok",
		User:  &models.User{ID: 99, Email: "admin@tastytable.local", Role: models.RoleAdmin},
	}
}

func anonymousSession() *models.Session {
	return &models.Session{Token: "guest-tok"}
}

func filledCart() *models.Cart {
	return &models.Cart{Lines: []models.CartLine{
		{MenuItemID: 1, Name: "Grilled Salmon", PriceCents: 2499, Quantity: 2},
		{MenuItemID: 2, Name: "Bruschetta", PriceCents: 899, Quantity: 1},
	}}
}

func checkoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{Name: "Casey", Phone: "+1-555-0100", Address: "1 Main St"}
}

func TestCheckout_SnapshotsCart(t *testing.T) {
	var created *models.Order
	repo := &fakeRepo{
		CreateOrderFn: func(ctx context.Context, order *models.Order) error {
			order.ID = 42
			created = order
			return nil
		},
	}
	carts := &fakeCarts{cart: filledCart()}
	pub := &fakePublisher{}
	svc := NewService(repo, carts, pub, logger.New("test"))

	resp, err := svc.Checkout(context.Background(), customerSession(7), checkoutRequest())
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.Equal(t, int64(5897), resp.TotalCents)
	require.Regexp(t, `^ORD_\d{8}_\d{3}$`, resp.OrderNumber)

	require.NotNil(t, created)
	require.Len(t, created.Items, 2)
	require.Equal(t, int64(2499), created.Items[0].PriceCents)
	require.NotNil(t, created.UserID)
	require.Equal(t, int64(7), *created.UserID)

	// cart cleared and event published
	require.Equal(t, []string{"user:7"}, carts.deleted)
	require.Len(t, pub.orders, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCarts{}, &fakePublisher{}, logger.New("test"))

	_, err := svc.Checkout(context.Background(), customerSession(7), checkoutRequest())
	require.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestCheckout_MissingContact(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCarts{cart: filledCart()}, &fakePublisher{}, logger.New("test"))

	_, err := svc.Checkout(context.Background(), customerSession(7), &models.CheckoutRequest{Name: "Casey"})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	require.ElementsMatch(t, []string{"phone", "address"}, ve.Fields)
}

func TestCheckout_GuestOrderHasNoUser(t *testing.T) {
	var created *models.Order
	repo := &fakeRepo{
		CreateOrderFn: func(ctx context.Context, order *models.Order) error {
			created = order
			return nil
		},
	}
	svc := NewService(repo, &fakeCarts{cart: filledCart()}, &fakePublisher{}, logger.New("test"))

	_, err := svc.Checkout(context.Background(), anonymousSession(), checkoutRequest())
	require.NoError(t, err)
	require.Nil(t, created.UserID)
	require.Equal(t, models.GuestOwner, created.Owner())
}

func TestCheckout_PublishFailureDoesNotFailOrder(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{orderErr: context.DeadlineExceeded}
	svc := NewService(repo, &fakeCarts{cart: filledCart()}, pub, logger.New("test"))

	resp, err := svc.Checkout(context.Background(), customerSession(7), checkoutRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.OrderNumber)
}

func TestGetOrder_Access(t *testing.T) {
	ownerID := int64(7)
	userOrder := &models.Order{Number: "ORD_20260830_001", UserID: &ownerID, Status: models.StatusPending}
	guestOrder := &models.Order{Number: "ORD_20260830_002", Status: models.StatusPending}

	repo := &fakeRepo{
		GetOrderByNumberFn: func(ctx context.Context, number string) (*models.Order, error) {
			switch number {
			case userOrder.Number:
				return userOrder, nil
			case guestOrder.Number:
				return guestOrder, nil
			default:
				return nil, models.ErrNotFound
			}
		},
	}
	svc := NewService(repo, &fakeCarts{}, &fakePublisher{}, logger.New("test"))
	ctx := context.Background()

	// owner and admin see the order
	_, err := svc.GetOrder(ctx, customerSession(7), userOrder.Number)
	require.NoError(t, err)
	_, err = svc.GetOrder(ctx, adminSession(), userOrder.Number)
	require.NoError(t, err)

	// a stranger gets not-found, never forbidden
	_, err = svc.GetOrder(ctx, customerSession(8), userOrder.Number)
	require.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.GetOrder(ctx, anonymousSession(), userOrder.Number)
	require.ErrorIs(t, err, models.ErrNotFound)

	// guest orders are retrievable by number
	_, err = svc.GetOrder(ctx, anonymousSession(), guestOrder.Number)
	require.NoError(t, err)
}

func TestListUserOrders(t *testing.T) {
	repo := &fakeRepo{
		ListOrdersByUserFn: func(ctx context.Context, userID int64) ([]models.Order, error) {
			require.Equal(t, int64(7), userID)
			return []models.Order{{Number: "ORD_20260830_001"}}, nil
		},
	}
	svc := NewService(repo, &fakeCarts{}, &fakePublisher{}, logger.New("test"))

	orders, err := svc.ListUserOrders(context.Background(), customerSession(7))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	// anonymous callers get an empty list without touching the repo
	orders, err = svc.ListUserOrders(context.Background(), anonymousSession())
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestListAllOrders_AdminOnly(t *testing.T) {
	repo := &fakeRepo{
		ListAllOrdersFn: func(ctx context.Context) ([]models.Order, error) {
			return []models.Order{{Number: "a"}, {Number: "b"}}, nil
		},
	}
	svc := NewService(repo, &fakeCarts{}, &fakePublisher{}, logger.New("test"))

	orders, err := svc.ListAllOrders(context.Background(), adminSession())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	_, err = svc.ListAllOrders(context.Background(), customerSession(7))
	require.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateStatus(t *testing.T) {
	order := &models.Order{ID: 1, Number: "ORD_20260830_001", Status: models.StatusPending}
	var loggedBy string
	repo := &fakeRepo{
		GetOrderByNumberFn: func(ctx context.Context, number string) (*models.Order, error) {
			return order, nil
		},
		UpdateStatusFn: func(ctx context.Context, o *models.Order, newStatus models.OrderStatus, changedBy string) error {
			loggedBy = changedBy
			return nil
		},
	}
	pub := &fakePublisher{}
	svc := NewService(repo, &fakeCarts{}, pub, logger.New("test"))

	updated, err := svc.UpdateStatus(context.Background(), adminSession(), order.Number, models.StatusProcessing)
	require.NoError(t, err)
	require.Equal(t, models.StatusProcessing, updated.Status)
	require.Equal(t, "admin@tastytable.local", loggedBy)
	require.Len(t, pub.notifications, 1)

	msg, ok := pub.notifications[0].(*models.StatusUpdateMessage)
	require.True(t, ok)
	require.Equal(t, "pending", msg.OldStatus)
	require.Equal(t, "processing", msg.NewStatus)
}

func TestUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	order := &models.Order{ID: 1, Number: "ORD_20260830_001", Status: models.StatusCompleted}
	repo := &fakeRepo{
		GetOrderByNumberFn: func(ctx context.Context, number string) (*models.Order, error) {
			return order, nil
		},
		UpdateStatusFn: func(ctx context.Context, o *models.Order, newStatus models.OrderStatus, changedBy string) error {
			t.Fatal("repository must not be written on an illegal transition")
			return nil
		},
	}
	svc := NewService(repo, &fakeCarts{}, &fakePublisher{}, logger.New("test"))

	_, err := svc.UpdateStatus(context.Background(), adminSession(), order.Number, models.StatusPending)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateStatus_NonAdmin(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCarts{}, &fakePublisher{}, logger.New("test"))

	_, err := svc.UpdateStatus(context.Background(), customerSession(7), "ORD_20260830_001", models.StatusProcessing)
	require.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.UpdateStatus(context.Background(), anonymousSession(), "ORD_20260830_001", models.StatusProcessing)
	require.ErrorIs(t, err, models.ErrForbidden)
}
