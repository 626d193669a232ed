package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.APIURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, ".taste-haven"), cfg.Cart.Dir)
	assert.False(t, cfg.Cart.S3.Enabled)
	assert.Equal(t, "us-east-1", cfg.Cart.S3.Region)
	assert.Equal(t, "carts/", cfg.Cart.S3.Prefix)
}

func TestLoadConfig_HomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".taste-haven.yaml"), []byte("api_url: http://home:9000\n"), 0o600))

	cfg, err := LoadConfig(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, "http://home:9000", cfg.APIURL)
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		env       map[string]string
		expectErr bool
		check     func(t *testing.T, cfg *Config)
	}{
		{
			name: "Values from file",
			content: `
api_url: http://shop.local:8080
log_level: debug
cart:
  dir: /tmp/carts
  s3:
    enabled: true
    bucket: carts-bucket
    region: eu-west-1
    prefix: users/
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://shop.local:8080", cfg.APIURL)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "/tmp/carts", cfg.Cart.Dir)
				assert.Equal(t, S3Config{Enabled: true, Bucket: "carts-bucket", Region: "eu-west-1", Prefix: "users/"}, cfg.Cart.S3)
			},
		},
		{
			name:    "Environment overrides file",
			content: "api_url: http://file:1\n",
			env: map[string]string{
				"TASTE_HAVEN_API_URL":         "http://env:2",
				"TASTE_HAVEN_CART_S3_ENABLED": "true",
				"TASTE_HAVEN_CART_S3_BUCKET":  "env-bucket",
				"TASTE_HAVEN_CART_DIR":        "/var/cart",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://env:2", cfg.APIURL)
				assert.True(t, cfg.Cart.S3.Enabled)
				assert.Equal(t, "env-bucket", cfg.Cart.S3.Bucket)
				assert.Equal(t, "/var/cart", cfg.Cart.Dir)
			},
		},
		{
			name:      "S3 enabled without bucket",
			content:   "cart:\n  s3:\n    enabled: true\n",
			expectErr: true,
		},
		{
			name:      "Empty api url",
			content:   "api_url: \"\"\n",
			expectErr: true,
		},
		{
			name:      "Malformed file",
			content:   "api_url: [unterminated\n",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(viper.New(), writeConfig(t, tt.content))

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in       string
		expected string
	}{
		{in: "~", expected: home},
		{in: "~/carts", expected: filepath.Join(home, "carts")},
		{in: "/abs/carts", expected: "/abs/carts"},
		{in: "relative", expected: "relative"},
		{in: "~other/carts", expected: "~other/carts"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
