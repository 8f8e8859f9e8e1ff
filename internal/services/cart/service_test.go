package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

// memoryStore keeps carts in a map, enough to exercise the service.
type memoryStore struct {
	carts map[string]*models.Cart
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: make(map[string]*models.Cart)}
}

func (m *memoryStore) Get(ctx context.Context, ownerKey string) (*models.Cart, error) {
	if cart, ok := m.carts[ownerKey]; ok {
		copied := &models.Cart{Lines: append([]models.CartLine(nil), cart.Lines...)}
		return copied, nil
	}
	return &models.Cart{}, nil
}

func (m *memoryStore) Save(ctx context.Context, ownerKey string, cart *models.Cart) error {
	m.carts[ownerKey] = &models.Cart{Lines: append([]models.CartLine(nil), cart.Lines...)}
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, ownerKey string) error {
	delete(m.carts, ownerKey)
	return nil
}

type fakeCatalog struct {
	items map[int64]*models.MenuItem
}

func (f *fakeCatalog) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	if item, ok := f.items[id]; ok {
		return item, nil
	}
	return nil, models.ErrNotFound
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{items: map[int64]*models.MenuItem{
		1: {ID: 1, Name: "Crispy Calamari", PriceCents: 1299},
		2: {ID: 2, Name: "Bruschetta", PriceCents: 899},
	}}
}

func guestSession() *models.Session {
	return &models.Session{Token: "guest-token"}
}

func TestAddItem_SnapshotsPrice(t *testing.T) {
	store := newMemoryStore()
	catalog := testCatalog()
	svc := NewService(store, catalog, logger.New("test"))
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, guestSession(), 1, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, int64(1299), cart.Lines[0].PriceCents)
	require.Equal(t, int64(2598), cart.TotalCents())

	// a later catalog price change must not touch the stored line
	catalog.items[1].PriceCents = 9999
	cart, err = svc.Get(ctx, guestSession())
	require.NoError(t, err)
	require.Equal(t, int64(1299), cart.Lines[0].PriceCents)
}

func TestAddItem_MergesLines(t *testing.T) {
	svc := NewService(newMemoryStore(), testCatalog(), logger.New("test"))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, guestSession(), 1, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, guestSession(), 1, 3)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, 4, cart.Lines[0].Quantity)
}

func TestAddItem_RejectsBadInput(t *testing.T) {
	svc := NewService(newMemoryStore(), testCatalog(), logger.New("test"))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, guestSession(), 1, 0)
	require.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, guestSession(), 99, 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetQuantity_BelowOneRemoves(t *testing.T) {
	svc := NewService(newMemoryStore(), testCatalog(), logger.New("test"))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, guestSession(), 1, 2)
	require.NoError(t, err)

	cart, err := svc.SetQuantity(ctx, guestSession(), 1, 0)
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
}

func TestRemoveItem_Idempotent(t *testing.T) {
	svc := NewService(newMemoryStore(), testCatalog(), logger.New("test"))
	ctx := context.Background()

	cart, err := svc.RemoveItem(ctx, guestSession(), 42)
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
}

func TestCartsAreIsolatedByOwner(t *testing.T) {
	svc := NewService(newMemoryStore(), testCatalog(), logger.New("test"))
	ctx := context.Background()

	userID := int64(7)
	userSession := &models.Session{Token: "user-token", User: &models.User{ID: userID}}

	_, err := svc.AddItem(ctx, guestSession(), 1, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userSession, 2, 1)
	require.NoError(t, err)

	guestCart, err := svc.Get(ctx, guestSession())
	require.NoError(t, err)
	userCart, err := svc.Get(ctx, userSession)
	require.NoError(t, err)

	require.Equal(t, int64(1), guestCart.Lines[0].MenuItemID)
	require.Equal(t, int64(2), userCart.Lines[0].MenuItemID)
}

func TestClear(t *testing.T) {
	svc := NewService(newMemoryStore(), testCatalog(), logger.New("test"))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, guestSession(), 1, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, guestSession()))

	cart, err := svc.Get(ctx, guestSession())
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
}
