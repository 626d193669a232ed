package repository

import (
	"context"
	"errors"
	"fmt"

	"taste-haven/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const menuColumns = `id, name, description, price::text, image, category, available`

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Str("driver", "postgres").Logger(),
	}
}

func scanMenuItem(row pgx.Row) (model.MenuItem, error) {
	var m model.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Image, &m.Category, &m.Available)
	return m, err
}

// List retrieves all menu items in insertion order.
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`

	m, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("menu_item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &m, nil
}

// GetByIDs retrieves the menu items with the given IDs, keyed by ID.
func (r *menuRepository) GetByIDs(ctx context.Context, ids []string) (map[string]model.MenuItem, error) {
	found := make(map[string]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query menu items by IDs")
		return nil, fmt.Errorf("failed to query menu items by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		found[m.ID] = m
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return found, nil
}

// Create inserts a new menu item.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, image, category, available)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Price, item.Image, string(item.Category), item.Available)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", item.ID).Msg("failed to create menu item")
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	r.logger.Debug().Str("menu_item_id", item.ID).Msg("menu item created")

	return nil
}

// Count returns the number of menu items.
func (r *menuRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count menu items")
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}
