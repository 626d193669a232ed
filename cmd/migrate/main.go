// Command migrate brings a PostgreSQL database up to the current schema and
// seeds the default menu.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"taste-haven/internal/config"
	"taste-haven/internal/database"
	"taste-haven/internal/repository"
	"taste-haven/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).With().Str("app", "migrate").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	menu := service.NewMenuService(repository.NewMenuRepository(pool, logger), logger)
	if err := menu.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}

	logger.Info().Msg("database ready")

	return nil
}
