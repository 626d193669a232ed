package service

import (
	"context"
	"errors"
	"testing"

	"taste-haven/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMenuRepository is a mock implementation of MenuRepository.
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) GetByIDs(ctx context.Context, ids []string) (map[string]model.MenuItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestMenuService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		items       []model.MenuItem
		repoErr     error
		expectCount int
		expectErr   bool
	}{
		{
			name: "Returns items",
			items: []model.MenuItem{
				{ID: "m1", Name: "Pizza", Price: "8.99", Category: model.CategoryMain, Available: true},
				{ID: "m2", Name: "Salad", Price: "5.99", Category: model.CategoryAppetizer, Available: true},
			},
			expectCount: 2,
		},
		{
			name:        "Empty catalogue",
			items:       []model.MenuItem{},
			expectCount: 0,
		},
		{
			name:      "Repository error",
			repoErr:   errors.New("connection refused"),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMenuRepository)
			svc := NewMenuService(repo, zerolog.Nop())

			if tt.repoErr != nil {
				repo.On("List", ctx).Return(nil, tt.repoErr)
			} else {
				repo.On("List", ctx).Return(tt.items, nil)
			}

			items, err := svc.List(ctx)

			if tt.expectErr {
				var storageErr *model.StorageError
				require.ErrorAs(t, err, &storageErr)
				assert.ErrorIs(t, err, tt.repoErr)
				assert.Nil(t, items)
			} else {
				require.NoError(t, err)
				assert.Len(t, items, tt.expectCount)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Get(t *testing.T) {
	ctx := context.Background()
	pizza := &model.MenuItem{ID: "m1", Name: "Pizza", Price: "8.99", Category: model.CategoryMain, Available: true}

	tests := []struct {
		name        string
		id          string
		setup       func(repo *MockMenuRepository)
		expectedErr error
	}{
		{
			name: "Item exists",
			id:   "m1",
			setup: func(repo *MockMenuRepository) {
				repo.On("GetByID", ctx, "m1").Return(pizza, nil)
			},
		},
		{
			name: "Item does not exist",
			id:   "missing",
			setup: func(repo *MockMenuRepository) {
				repo.On("GetByID", ctx, "missing").Return(nil, nil)
			},
			expectedErr: model.ErrMenuItemNotFound,
		},
		{
			name:        "Empty id",
			id:          "",
			setup:       func(repo *MockMenuRepository) {},
			expectedErr: model.ErrMenuItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMenuRepository)
			tt.setup(repo)
			svc := NewMenuService(repo, zerolog.Nop())

			item, err := svc.Get(ctx, tt.id)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, pizza, item)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Get_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	repo.On("GetByID", ctx, "m1").Return(nil, errors.New("timeout"))

	_, err := NewMenuService(repo, zerolog.Nop()).Get(ctx, "m1")

	var storageErr *model.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.NotErrorIs(t, err, model.ErrMenuItemNotFound)
}

func TestMenuService_Create(t *testing.T) {
	ctx := context.Background()
	unavailable := false

	tests := []struct {
		name              string
		input             model.MenuItemInput
		expectedFields    []string
		expectedPrice     string
		expectedAvailable bool
	}{
		{
			name:              "Available defaults to true",
			input:             model.MenuItemInput{Name: "Tiramisu", Price: "6.5", Category: model.CategoryDessert},
			expectedPrice:     "6.50",
			expectedAvailable: true,
		},
		{
			name:              "Explicitly unavailable",
			input:             model.MenuItemInput{Name: "Lemonade", Price: "3.00", Category: model.CategoryBeverage, Available: &unavailable},
			expectedPrice:     "3.00",
			expectedAvailable: false,
		},
		{
			name:           "Bad price",
			input:          model.MenuItemInput{Name: "Soup", Price: "abc", Category: model.CategoryAppetizer},
			expectedFields: []string{"price"},
		},
		{
			name:           "Negative price",
			input:          model.MenuItemInput{Name: "Soup", Price: "-1.00", Category: model.CategoryAppetizer},
			expectedFields: []string{"price"},
		},
		{
			name:           "Unknown category",
			input:          model.MenuItemInput{Name: "Soup", Price: "4.00", Category: "side"},
			expectedFields: []string{"category"},
		},
		{
			name:           "Everything wrong",
			input:          model.MenuItemInput{Price: "1.234", Category: ""},
			expectedFields: []string{"name", "price", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMenuRepository)
			svc := NewMenuService(repo, zerolog.Nop())

			if tt.expectedFields == nil {
				repo.On("Create", ctx, mock.AnythingOfType("*model.MenuItem")).Return(nil)
			}

			item, err := svc.Create(ctx, tt.input)

			if tt.expectedFields != nil {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				var got []string
				for _, f := range vErr.Fields {
					got = append(got, f.Field)
				}
				assert.Equal(t, tt.expectedFields, got)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, item.ID)
			assert.Equal(t, tt.expectedPrice, item.Price)
			assert.Equal(t, tt.expectedAvailable, item.Available)
			repo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty store gets default menu", func(t *testing.T) {
		repo := new(MockMenuRepository)
		repo.On("Count", ctx).Return(0, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.MenuItem")).Return(nil)

		require.NoError(t, NewMenuService(repo, zerolog.Nop()).Seed(ctx))

		repo.AssertNumberOfCalls(t, "Create", len(DefaultMenu))
	})

	t.Run("Populated store is left alone", func(t *testing.T) {
		repo := new(MockMenuRepository)
		repo.On("Count", ctx).Return(6, nil)

		require.NoError(t, NewMenuService(repo, zerolog.Nop()).Seed(ctx))

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Count failure", func(t *testing.T) {
		repo := new(MockMenuRepository)
		repo.On("Count", ctx).Return(0, errors.New("db down"))

		assert.Error(t, NewMenuService(repo, zerolog.Nop()).Seed(ctx))
	})
}

func TestDefaultMenu(t *testing.T) {
	require.Len(t, DefaultMenu, 6)

	categories := map[model.Category]int{}
	for _, item := range DefaultMenu {
		assert.True(t, item.Category.Valid(), item.Name)
		assert.NotEmpty(t, item.Image, item.Name)
		categories[item.Category]++
	}
	assert.Equal(t, 3, categories[model.CategoryMain])
	assert.Equal(t, 1, categories[model.CategoryAppetizer])
	assert.Equal(t, 1, categories[model.CategoryDessert])
	assert.Equal(t, 1, categories[model.CategoryBeverage])
}
