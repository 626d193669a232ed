package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Notify   NotifyConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig selects where the menu and orders live.
type StorageConfig struct {
	Driver string // "memory" or "postgres"
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// NotifyConfig holds the optional order notification targets. A target is
// enabled when its address or token is set.
// Events are delivered in the background; QueueSize bounds the backlog per
// target and Timeout bounds each delivery.
type NotifyConfig struct {
	RabbitMQ  RabbitMQConfig
	Kafka     KafkaConfig
	Telegram  TelegramConfig
	QueueSize int
	Timeout   time.Duration
}

// RabbitMQConfig holds the broker used for order events.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// KafkaConfig holds the brokers and topic used for order events.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// TelegramConfig holds the bot used to message the kitchen.
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Enabled reports whether a RabbitMQ URL is configured.
func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// Enabled reports whether any Kafka broker is configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// Enabled reports whether a Telegram bot token is configured.
func (c TelegramConfig) Enabled() bool { return c.Token != "" }

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 5000),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", StorageMemory),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "tastehaven"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Notify: NotifyConfig{
			RabbitMQ: RabbitMQConfig{
				URL:      getEnv("NOTIFY_RABBITMQ_URL", ""),
				Exchange: getEnv("NOTIFY_RABBITMQ_EXCHANGE", "orders_topic"),
			},
			Kafka: KafkaConfig{
				Brokers: getEnvAsSlice("NOTIFY_KAFKA_BROKERS"),
				Topic:   getEnv("NOTIFY_KAFKA_TOPIC", "orders"),
			},
			Telegram: TelegramConfig{
				Token:  getEnv("NOTIFY_TELEGRAM_TOKEN", ""),
				ChatID: getEnvAsInt64("NOTIFY_TELEGRAM_CHAT_ID", 0),
			},
			QueueSize: getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
			Timeout:   time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be memory or postgres)", c.Storage.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Notify.QueueSize < 0 {
		return fmt.Errorf("invalid notification queue size: %d", c.Notify.QueueSize)
	}

	if c.Notify.RabbitMQ.Enabled() && c.Notify.RabbitMQ.Exchange == "" {
		return fmt.Errorf("RabbitMQ exchange is required when RabbitMQ notifications are enabled")
	}

	if c.Notify.Kafka.Enabled() && c.Notify.Kafka.Topic == "" {
		return fmt.Errorf("Kafka topic is required when Kafka notifications are enabled")
	}

	if c.Notify.Telegram.Enabled() && c.Notify.Telegram.ChatID == 0 {
		return fmt.Errorf("Telegram chat ID is required when Telegram notifications are enabled")
	}

	return nil
}

// Validate validates the database settings.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated variable, dropping empty parts.
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
