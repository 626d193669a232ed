package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taste-haven/internal/config"
	"taste-haven/internal/database"
	"taste-haven/internal/handler"
	"taste-haven/internal/notify"
	"taste-haven/internal/repository"
	"taste-haven/internal/router"
	"taste-haven/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("storage", cfg.Storage.Driver).Msg("starting taste-haven API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	menuRepo, orderRepo, closeStore, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier := newNotifier(cfg.Notify, logger)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close notifiers")
		}
	}()

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	if err := menuService.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	orderService := service.NewOrderService(orderRepo, menuRepo, notifier, logger)

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(menuService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(menuHandler, orderHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newRepositories builds the stores for the configured driver. The returned
// func releases any resources they hold.
func newRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.MenuRepository, repository.OrderRepository, func(), error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		logger.Info().Msg("using in-memory storage; data is lost on restart")
		return repository.NewMemoryMenuRepository(logger), repository.NewMemoryOrderRepository(logger), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repository.NewMenuRepository(pool, logger), repository.NewOrderRepository(pool, logger), pool.Close, nil
}

// newNotifier connects every configured notification target. Targets that
// fail to initialise are logged and skipped; orders are still accepted.
// Each target gets its own background queue so a slow one never holds up a
// request or the other targets.
func newNotifier(cfg config.NotifyConfig, logger zerolog.Logger) notify.Notifier {
	var notifiers []notify.Notifier
	add := func(n notify.Notifier) {
		notifiers = append(notifiers, notify.NewAsync(n, cfg.QueueSize, cfg.Timeout, logger))
	}

	if cfg.RabbitMQ.Enabled() {
		n, err := notify.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ notifications disabled")
		} else {
			add(n)
		}
	}

	if cfg.Kafka.Enabled() {
		n, err := notify.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Kafka notifications disabled")
		} else {
			add(n)
		}
	}

	if cfg.Telegram.Enabled() {
		n, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Timeout, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Telegram notifications disabled")
		} else {
			add(n)
		}
	}

	logger.Info().Int("count", len(notifiers)).Msg("order notifiers configured")

	return notify.Multi(notifiers...)
}
