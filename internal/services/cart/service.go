package cart

import (
	"context"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

// Store persists carts keyed by owner (user id or guest session token).
type Store interface {
	Get(ctx context.Context, ownerKey string) (*models.Cart, error)
	Save(ctx context.Context, ownerKey string, cart *models.Cart) error
	Delete(ctx context.Context, ownerKey string) error
}

// CatalogReader is the slice of the catalog the cart needs: price lookups
// at add time.
type CatalogReader interface {
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
}

// Service manages the shopping cart aggregate.
type Service struct {
	store   Store
	catalog CatalogReader
	logger  *logger.Logger
}

// NewService creates a new cart service.
func NewService(store Store, catalog CatalogReader, log *logger.Logger) *Service {
	return &Service{store: store, catalog: catalog, logger: log}
}

// Get returns the caller's cart, empty if none exists yet.
func (s *Service) Get(ctx context.Context, session *models.Session) (*models.Cart, error) {
	return s.store.Get(ctx, session.CartOwnerKey())
}

// AddItem snapshots the dish's current name and price into the cart. The
// quantity must be positive; existing lines are merged.
func (s *Service) AddItem(ctx context.Context, session *models.Session, menuItemID int64, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	item, err := s.catalog.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	ownerKey := session.CartOwnerKey()
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	if err := cart.Add(*item, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ownerKey, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity updates a line; a quantity below 1 removes it.
func (s *Service) SetQuantity(ctx context.Context, session *models.Session, menuItemID int64, quantity int) (*models.Cart, error) {
	ownerKey := session.CartOwnerKey()
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(menuItemID, quantity)
	if err := s.store.Save(ctx, ownerKey, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line. Removing an absent line succeeds.
func (s *Service) RemoveItem(ctx context.Context, session *models.Session, menuItemID int64) (*models.Cart, error) {
	ownerKey := session.CartOwnerKey()
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	cart.Remove(menuItemID)
	if err := s.store.Save(ctx, ownerKey, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the caller's cart.
func (s *Service) Clear(ctx context.Context, session *models.Session) error {
	return s.store.Delete(ctx, session.CartOwnerKey())
}
