package models

import (
	"fmt"
	"time"
)

// Category is reference data grouping menu items.
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	ImageURL    string `json:"image" db:"image_url"`
}

// MenuItem is a sellable dish. Prices are integer cents.
type MenuItem struct {
	ID          int64     `json:"id" db:"id"`
	CategoryID  int64     `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	ImageURL    string    `json:"image" db:"image_url"`
	Popular     bool      `json:"popular" db:"popular"`
	Vegetarian  bool      `json:"vegetarian" db:"vegetarian"`
	CreatedAt   time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// UpsertMenuItemRequest is the admin payload for creating or editing a dish.
type UpsertMenuItemRequest struct {
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image"`
	Popular     bool   `json:"popular"`
	Vegetarian  bool   `json:"vegetarian"`
}

// Validate checks the menu item payload.
func (req *UpsertMenuItemRequest) Validate() error {
	if len(req.Name) == 0 {
		return fmt.Errorf("%w: name is required", ErrInvalidPayload)
	}
	if len(req.Name) > 100 {
		return fmt.Errorf("%w: name must not exceed 100 characters", ErrInvalidPayload)
	}
	if req.CategoryID < 1 {
		return fmt.Errorf("%w: category_id is required", ErrInvalidPayload)
	}
	if req.PriceCents < 1 || req.PriceCents > 99999 {
		return fmt.Errorf("%w: price_cents must be between 1 and 99999", ErrInvalidPayload)
	}
	return nil
}

// CreateCategoryRequest is the admin payload for adding a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
}

// Validate checks the category payload.
func (req *CreateCategoryRequest) Validate() error {
	if len(req.Name) == 0 {
		return fmt.Errorf("%w: name is required", ErrInvalidPayload)
	}
	if len(req.Name) > 100 {
		return fmt.Errorf("%w: name must not exceed 100 characters", ErrInvalidPayload)
	}
	return nil
}
