package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-storefront/internal/database"
	"restaurant-storefront/internal/models"
)

// PostgresStore persists carts as one JSONB row per owner.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a postgres-backed cart store.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get loads the owner's cart. A missing row is an empty cart, not an error.
func (s *PostgresStore) Get(ctx context.Context, ownerKey string) (*models.Cart, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT items FROM carts WHERE owner_key = $1`, ownerKey,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.Cart{}, nil
		}
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return &models.Cart{Lines: lines}, nil
}

// Save upserts the owner's cart.
func (s *PostgresStore) Save(ctx context.Context, ownerKey string, cart *models.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	err = s.db.Exec(ctx,
		`INSERT INTO carts (owner_key, items, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (owner_key)
		 DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()`,
		ownerKey, raw)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete drops the owner's cart row. Deleting a missing cart succeeds.
func (s *PostgresStore) Delete(ctx context.Context, ownerKey string) error {
	if err := s.db.Exec(ctx, `DELETE FROM carts WHERE owner_key = $1`, ownerKey); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
