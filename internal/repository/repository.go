package repository

import (
	"context"

	"taste-haven/internal/model"
)

// MenuRepository defines the interface for menu item data access operations.
type MenuRepository interface {
	// List retrieves all menu items in insertion order.
	List(ctx context.Context) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID.
	// Returns nil without error when the item does not exist.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// GetByIDs retrieves the menu items with the given IDs, keyed by ID.
	// Missing IDs are simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]model.MenuItem, error)

	// Create inserts a new menu item. The ID must already be assigned.
	Create(ctx context.Context, item *model.MenuItem) error

	// Count returns the number of menu items.
	Count(ctx context.Context) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create stores a complete order atomically: either the whole order is
	// persisted or nothing is.
	Create(ctx context.Context, order *model.Order, items []model.CartEntry) error

	// GetByID retrieves an order by its ID.
	// Returns nil without error when the order does not exist.
	GetByID(ctx context.Context, id string) (*model.Order, error)
}
