// Package database opens the PostgreSQL pool and keeps its schema current.
package database

import (
	"context"
	"fmt"
	"time"

	"taste-haven/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = time.Minute
)

// poolConfig translates the database settings into pgxpool options.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pc.MaxConns = int32(cfg.MaxConnections)
	pc.MinConns = int32(cfg.MinConnections)
	pc.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	pc.MaxConnIdleTime = maxConnIdleTime
	pc.HealthCheckPeriod = healthCheckPeriod
	pc.ConnConfig.RuntimeParams["application_name"] = "taste-haven"

	return pc, nil
}

// NewPool connects to PostgreSQL and confirms the server answers by asking
// which database and server version it reached.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With().
		Str("component", "database").
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Logger()

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	var dbName, version string
	err = pool.QueryRow(ctx, "SELECT current_database(), current_setting('server_version')").Scan(&dbName, &version)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", cfg.Database, err)
	}

	logger.Info().
		Str("database", dbName).
		Str("server_version", version).
		Int32("max_connections", pc.MaxConns).
		Msg("connected to postgres")

	return pool, nil
}
