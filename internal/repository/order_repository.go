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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Str("driver", "postgres").Logger(),
	}
}

// Create inserts the order row and one order_items row per cart entry in a
// single transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.CartEntry) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = r.insertOrder(ctx, tx, order); err != nil {
		return err
	}

	if err = r.insertOrderItems(ctx, tx, order.ID, items); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Int("item_count", len(items)).
		Msg("order created successfully")

	return nil
}

func (r *orderRepository) insertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, customer_name, customer_phone, customer_address, special_instructions,
			items, subtotal, tax, delivery_fee, total, status, created_at
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		order.SpecialInstructions,
		order.Items,
		order.Subtotal,
		order.Tax,
		order.DeliveryFee,
		order.Total,
		string(order.Status),
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) insertOrderItems(ctx context.Context, tx pgx.Tx, orderID string, items []model.CartEntry) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, position, menu_item_id, name, unit_price, quantity)
		VALUES ($1::uuid, $2, $3, $4, $5::numeric, $6)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, orderID, i, item.ID, item.Name, item.Price, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", orderID).
				Str("menu_item_id", items[i].ID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `
		SELECT id::text, customer_name, customer_phone, customer_address, special_instructions,
			items, subtotal::text, tax::text, delivery_fee::text, total::text, status, created_at
		FROM orders
		WHERE id = $1::uuid
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.SpecialInstructions,
		&order.Items,
		&order.Subtotal,
		&order.Tax,
		&order.DeliveryFee,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}
