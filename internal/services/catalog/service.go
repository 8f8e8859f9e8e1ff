package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"restaurant-storefront/internal/database"
	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

// Filter narrows the menu listing. Zero values mean "no restriction".
type Filter struct {
	Category string // category id, or "all"/empty
	Search   string // case-insensitive substring of name or description
	VegOnly  bool
}

// FilterMenuItems applies the filter, preserving catalog order.
func FilterMenuItems(items []models.MenuItem, f Filter) []models.MenuItem {
	query := strings.ToLower(f.Search)

	result := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if f.Category != "" && f.Category != "all" {
			if strconv.FormatInt(item.CategoryID, 10) != f.Category {
				continue
			}
		}
		if query != "" {
			name := strings.ToLower(item.Name)
			desc := strings.ToLower(item.Description)
			if !strings.Contains(name, query) && !strings.Contains(desc, query) {
				continue
			}
		}
		if f.VegOnly && !item.Vegetarian {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Service provides menu browsing and admin catalog management.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new catalog service.
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{db: db, logger: log}
}

// ListCategories returns all categories in catalog order.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, image_url FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListMenuItems returns the filtered menu in catalog order.
func (s *Service) ListMenuItems(ctx context.Context, f Filter) ([]models.MenuItem, error) {
	items, err := s.loadMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	return FilterMenuItems(items, f), nil
}

// GetMenuItem returns a single dish.
func (s *Service) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.QueryRow(ctx,
		`SELECT id, category_id, name, description, price_cents, image_url, popular, vegetarian, created_at, updated_at
		 FROM menu_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.PriceCents,
		&item.ImageURL, &item.Popular, &item.Vegetarian, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	return &item, nil
}

// CreateMenuItem adds a dish to the catalog (admin only, enforced upstream).
func (s *Service) CreateMenuItem(ctx context.Context, req *models.UpsertMenuItemRequest) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Popular:     req.Popular,
		Vegetarian:  req.Vegetarian,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO menu_items (category_id, name, description, price_cents, image_url, popular, vegetarian)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		req.CategoryID, req.Name, req.Description, req.PriceCents, req.ImageURL, req.Popular, req.Vegetarian,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert menu item: %w", err)
	}
	return item, nil
}

// UpdateMenuItem edits an existing dish. Past order snapshots are untouched.
func (s *Service) UpdateMenuItem(ctx context.Context, id int64, req *models.UpsertMenuItemRequest) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Popular:     req.Popular,
		Vegetarian:  req.Vegetarian,
	}
	err := s.db.QueryRow(ctx,
		`UPDATE menu_items
		 SET category_id = $1, name = $2, description = $3, price_cents = $4,
		     image_url = $5, popular = $6, vegetarian = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING created_at, updated_at`,
		req.CategoryID, req.Name, req.Description, req.PriceCents, req.ImageURL,
		req.Popular, req.Vegetarian, id,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

// DeleteMenuItem removes a dish from the catalog.
func (s *Service) DeleteMenuItem(ctx context.Context, id int64) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateCategory adds a category (admin only, enforced upstream).
func (s *Service) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name, description, image_url)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		req.Name, req.Description, req.ImageURL,
	).Scan(&category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return category, nil
}

func (s *Service) loadMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, category_id, name, description, price_cents, image_url, popular, vegetarian, created_at, updated_at
		 FROM menu_items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.PriceCents,
			&item.ImageURL, &item.Popular, &item.Vegetarian, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
