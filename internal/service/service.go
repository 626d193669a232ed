package service

import (
	"context"

	"taste-haven/internal/model"
)

// MenuService defines operations for the menu catalogue.
type MenuService interface {
	// List retrieves every menu item in insertion order.
	List(ctx context.Context) ([]model.MenuItem, error)

	// Get retrieves a single menu item by ID.
	Get(ctx context.Context, id string) (*model.MenuItem, error)

	// Create adds a menu item with a freshly assigned ID.
	Create(ctx context.Context, input model.MenuItemInput) (*model.MenuItem, error)

	// Seed fills an empty catalogue with the default menu.
	Seed(ctx context.Context) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Submit prices a validated checkout request and stores the order.
	Submit(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// Get retrieves an order by its ID.
	Get(ctx context.Context, id string) (*model.Order, error)
}
