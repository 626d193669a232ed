package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables the cart client reads,
// e.g. TASTE_HAVEN_API_URL or TASTE_HAVEN_CART_S3_BUCKET.
const EnvPrefix = "TASTE_HAVEN"

// Config holds the cart client configuration.
type Config struct {
	APIURL   string     `mapstructure:"api_url"`
	LogLevel string     `mapstructure:"log_level"`
	Cart     CartConfig `mapstructure:"cart"`
}

// CartConfig says where the cart is persisted.
type CartConfig struct {
	Dir string   `mapstructure:"dir"`
	S3  S3Config `mapstructure:"s3"`
}

// S3Config mirrors the cart to a bucket when Enabled.
type S3Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Region  string `mapstructure:"region"`
	Prefix  string `mapstructure:"prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:5000")
	v.SetDefault("log_level", "warn")
	v.SetDefault("cart.dir", "~/.taste-haven")
	v.SetDefault("cart.s3.enabled", false)
	v.SetDefault("cart.s3.bucket", "")
	v.SetDefault("cart.s3.region", "us-east-1")
	v.SetDefault("cart.s3.prefix", "carts/")
}

// LoadConfig reads cfgFile, or $HOME/.taste-haven.yaml when cfgFile is empty,
// and overlays TASTE_HAVEN_* environment variables. A missing default file is
// not an error.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".taste-haven")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	dir, err := expandHome(cfg.Cart.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Cart.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.Cart.Dir == "" {
		return fmt.Errorf("cart.dir is required")
	}
	if c.Cart.S3.Enabled && c.Cart.S3.Bucket == "" {
		return fmt.Errorf("cart.s3.bucket is required when cart.s3.enabled is set")
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
