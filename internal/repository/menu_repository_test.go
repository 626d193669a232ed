package repository

import (
	"context"
	"testing"
	"time"

	"taste-haven/internal/database"
	"taste-haven/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the migrations and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping postgres-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func testMenu() []model.MenuItem {
	return []model.MenuItem{
		{ID: "m1", Name: "Classic Margherita Pizza", Description: "Tomato and basil", Price: "8.99", Image: "pizza.jpg", Category: model.CategoryMain, Available: true},
		{ID: "m2", Name: "Fresh Garden Salad", Description: "Greens", Price: "5.99", Image: "salad.jpg", Category: model.CategoryAppetizer, Available: true},
		{ID: "m3", Name: "Mango Smoothie", Description: "Mango and yogurt", Price: "4.99", Image: "smoothie.jpg", Category: model.CategoryBeverage, Available: false},
	}
}

func seedMenu(t *testing.T, repo MenuRepository, items []model.MenuItem) {
	ctx := context.Background()
	for i := range items {
		require.NoError(t, repo.Create(ctx, &items[i]))
	}
}

func TestMenuRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuRepository(pool, zerolog.Nop())
	ctx := context.Background()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	seeded := testMenu()
	seedMenu(t, repo, seeded)

	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, items)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMenuRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuRepository(pool, zerolog.Nop())
	seeded := testMenu()
	seedMenu(t, repo, seeded)

	tests := []struct {
		name      string
		id        string
		expectNil bool
	}{
		{
			name: "Item exists",
			id:   "m1",
		},
		{
			name: "Unavailable item is still returned",
			id:   "m3",
		},
		{
			name:      "Item does not exist",
			id:        "missing",
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := repo.GetByID(context.Background(), tt.id)

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, item)
				return
			}
			require.NotNil(t, item)
			assert.Equal(t, tt.id, item.ID)
		})
	}
}

func TestMenuRepository_PricePreserved(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuRepository(pool, zerolog.Nop())
	ctx := context.Background()

	item := model.MenuItem{ID: "p", Name: "Creamy Alfredo Pasta", Price: "9.50", Category: model.CategoryMain, Available: true}
	require.NoError(t, repo.Create(ctx, &item))

	got, err := repo.GetByID(ctx, "p")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "9.50", got.Price)
}

func TestMenuRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuRepository(pool, zerolog.Nop())
	seedMenu(t, repo, testMenu())

	tests := []struct {
		name     string
		ids      []string
		expected int
	}{
		{name: "All items", ids: []string{"m1", "m2", "m3"}, expected: 3},
		{name: "Subset", ids: []string{"m1", "m3"}, expected: 2},
		{name: "Some missing", ids: []string{"m1", "missing"}, expected: 1},
		{name: "None exist", ids: []string{"x", "y"}, expected: 0},
		{name: "Empty ID list", ids: []string{}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.GetByIDs(context.Background(), tt.ids)

			require.NoError(t, err)
			assert.Len(t, found, tt.expected)
			for id, item := range found {
				assert.Equal(t, id, item.ID)
			}
		})
	}
}

func TestMenuRepository_CreateDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuRepository(pool, zerolog.Nop())
	item := testMenu()[0]

	require.NoError(t, repo.Create(context.Background(), &item))
	assert.Error(t, repo.Create(context.Background(), &item))
}

func TestMenuRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuRepository(pool, zerolog.Nop())
	seedMenu(t, repo, testMenu())

	// Close the pool to simulate database errors
	pool.Close()

	ctx := context.Background()

	t.Run("List with closed pool", func(t *testing.T) {
		items, err := repo.List(ctx)
		require.Error(t, err)
		assert.Nil(t, items)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		item, err := repo.GetByID(ctx, "m1")
		require.Error(t, err)
		assert.Nil(t, item)
	})

	t.Run("GetByIDs with closed pool", func(t *testing.T) {
		found, err := repo.GetByIDs(ctx, []string{"m1"})
		require.Error(t, err)
		assert.Nil(t, found)
	})

	t.Run("Count with closed pool", func(t *testing.T) {
		_, err := repo.Count(ctx)
		require.Error(t, err)
	})
}
