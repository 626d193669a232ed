package repository

import (
	"context"
	"fmt"
	"sync"

	"taste-haven/internal/model"

	"github.com/rs/zerolog"
)

// memoryMenuRepository keeps menu items in process memory. Contents are lost on restart.
type memoryMenuRepository struct {
	mu     sync.RWMutex
	items  map[string]model.MenuItem
	order  []string
	logger zerolog.Logger
}

// NewMemoryMenuRepository creates an empty in-memory menu repository.
func NewMemoryMenuRepository(logger zerolog.Logger) MenuRepository {
	return &memoryMenuRepository{
		items:  make(map[string]model.MenuItem),
		logger: logger.With().Str("repository", "menu").Str("driver", "memory").Logger(),
	}
}

func (r *memoryMenuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.MenuItem, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.items[id])
	}
	return items, nil
}

func (r *memoryMenuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *memoryMenuRepository) GetByIDs(ctx context.Context, ids []string) (map[string]model.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[string]model.MenuItem, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

func (r *memoryMenuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("menu item %s already exists", item.ID)
	}
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)

	r.logger.Debug().Str("menu_item_id", item.ID).Msg("menu item created")

	return nil
}

func (r *memoryMenuRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}

// memoryOrderRepository keeps orders in process memory. Contents are lost on restart.
type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]model.Order
	logger zerolog.Logger
}

// NewMemoryOrderRepository creates an empty in-memory order repository.
func NewMemoryOrderRepository(logger zerolog.Logger) OrderRepository {
	return &memoryOrderRepository{
		orders: make(map[string]model.Order),
		logger: logger.With().Str("repository", "order").Str("driver", "memory").Logger(),
	}
}

// Create inserts the whole record under a single lock.
func (r *memoryOrderRepository) Create(ctx context.Context, order *model.Order, items []model.CartEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	r.orders[order.ID] = *order

	r.logger.Debug().
		Str("order_id", order.ID).
		Int("item_count", len(items)).
		Msg("order created successfully")

	return nil
}

func (r *memoryOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}
