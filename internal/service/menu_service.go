package service

import (
	"context"
	"fmt"
	"strings"

	"taste-haven/internal/model"
	"taste-haven/internal/pricing"
	"taste-haven/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMenu is the catalogue a fresh store is seeded with.
var DefaultMenu = []model.MenuItemInput{
	{
		Name:        "Classic Margherita Pizza",
		Description: "Traditional pizza with fresh mozzarella, tomato sauce, and basil",
		Price:       "8.99",
		Image:       "https://images.unsplash.com/photo-1601924638867-3ec2e9c0e6f6",
		Category:    model.CategoryMain,
	},
	{
		Name:        "Spicy Chicken Burger",
		Description: "Crispy chicken breast with spicy mayo, lettuce, and pickles on a toasted bun",
		Price:       "7.49",
		Image:       "https://images.unsplash.com/photo-1606756790138-0a29f4b9e720",
		Category:    model.CategoryMain,
	},
	{
		Name:        "Creamy Alfredo Pasta",
		Description: "Fresh pasta tossed in rich and creamy alfredo sauce with herbs",
		Price:       "9.50",
		Image:       "https://images.unsplash.com/photo-1617196032719-28e5996d8a6d",
		Category:    model.CategoryMain,
	},
	{
		Name:        "Fresh Garden Salad",
		Description: "Mixed greens with tomatoes, cucumbers, and balsamic vinaigrette",
		Price:       "5.99",
		Image:       "https://images.unsplash.com/photo-1556911220-e15b29be8c49",
		Category:    model.CategoryAppetizer,
	},
	{
		Name:        "Chocolate Lava Cake",
		Description: "Warm chocolate cake with molten center served with vanilla ice cream",
		Price:       "6.75",
		Image:       "https://images.unsplash.com/photo-1601979031451-d4c66f0fcd7a",
		Category:    model.CategoryDessert,
	},
	{
		Name:        "Mango Smoothie",
		Description: "Refreshing blend of fresh mango, yogurt, and honey",
		Price:       "4.99",
		Image:       "https://images.unsplash.com/photo-1582719478173-2d4a7a67dd4b",
		Category:    model.CategoryBeverage,
	},
}

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// List retrieves every menu item in insertion order.
func (s *menuService) List(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, &model.StorageError{Op: "list menu", Err: err}
	}

	s.logger.Debug().Int("count", len(items)).Msg("retrieved menu items")

	return items, nil
}

// Get retrieves a single menu item by ID.
func (s *menuService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	if id == "" {
		return nil, model.ErrMenuItemNotFound
	}

	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to get menu item")
		return nil, &model.StorageError{Op: "get menu item", Err: err}
	}

	if item == nil {
		s.logger.Debug().Str("menu_item_id", id).Msg("menu item not found")
		return nil, model.ErrMenuItemNotFound
	}

	return item, nil
}

// Create adds a menu item. Available defaults to true when omitted.
func (s *menuService) Create(ctx context.Context, input model.MenuItemInput) (*model.MenuItem, error) {
	verr := &model.ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "Name is required")
	}
	price, err := pricing.NormalizePrice(input.Price)
	if err != nil {
		verr.Add("price", fmt.Sprintf("Price %q is not a valid amount", input.Price))
	}
	if !input.Category.Valid() {
		verr.Add("category", fmt.Sprintf("Category %q is not one of main, appetizer, dessert, beverage", input.Category))
	}
	if !verr.Empty() {
		return nil, verr
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	item := &model.MenuItem{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		Image:       input.Image,
		Category:    input.Category,
		Available:   available,
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create menu item")
		return nil, &model.StorageError{Op: "create menu item", Err: err}
	}

	s.logger.Info().Str("menu_item_id", item.ID).Str("name", item.Name).Msg("menu item created")

	return item, nil
}

// Seed creates DefaultMenu when the catalogue is empty. Running it against a
// populated store does nothing.
func (s *menuService) Seed(ctx context.Context) error {
	count, err := s.menuRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count menu items: %w", err)
	}
	if count > 0 {
		s.logger.Debug().Int("count", count).Msg("menu already seeded")
		return nil
	}

	for _, input := range DefaultMenu {
		if _, err := s.Create(ctx, input); err != nil {
			return fmt.Errorf("failed to seed %q: %w", input.Name, err)
		}
	}

	s.logger.Info().Int("count", len(DefaultMenu)).Msg("menu seeded")

	return nil
}
