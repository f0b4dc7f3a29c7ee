package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Run from an empty directory so no config.toml is picked up.
	t.Chdir(t.TempDir())

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "data/iou.db", cfg.Database.Path)
		assert.Equal(t, "America/Chicago", cfg.Ledger.Timezone)
		assert.Equal(t, "US", cfg.Ledger.DefaultRegion)
		assert.Equal(t, "log", cfg.Notify.Driver)
		assert.Equal(t, "memory", cfg.Dedupe.Driver)
		assert.Equal(t, 24*time.Hour, cfg.Dedupe.TTL)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TokenDuration)
		assert.NotEmpty(t, cfg.JWT.Secret)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		t.Setenv("IOU_APP_PORT", "9090")
		t.Setenv("IOU_DATABASE_DRIVER", "postgres")
		t.Setenv("IOU_DATABASE_URL", "postgres://localhost/iou?sslmode=disable")
		t.Setenv("IOU_DEDUPE_TTL", "1h")
		t.Setenv("IOU_LEDGER_TIMEZONE", "UTC")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "postgres://localhost/iou?sslmode=disable", cfg.Database.URL)
		assert.Equal(t, time.Hour, cfg.Dedupe.TTL)
		assert.Equal(t, "UTC", cfg.Ledger.Timezone)
	})

	t.Run("reads config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "iou.toml")
		content := `
[app]
port = "7000"

[notify]
driver = "twilio"

[twilio]
account_sid = "AC123"
auth_token = "secret"
from_number = "+13125550000"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "7000", cfg.App.Port)
		assert.Equal(t, "twilio", cfg.Notify.Driver)
		assert.Equal(t, "AC123", cfg.Twilio.AccountSID)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown database driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"postgres without url", func(c *Config) { c.Database.Driver = "postgres" }, "database.url"},
		{"bad timezone", func(c *Config) { c.Ledger.Timezone = "Mars/Olympus" }, "ledger.timezone"},
		{"twilio without credentials", func(c *Config) { c.Notify.Driver = "twilio" }, "twilio.account_sid"},
		{"signatures without public url", func(c *Config) {
			c.Twilio.ValidateSignatures = true
			c.Twilio.AuthToken = "secret"
		}, "twilio.public_url"},
		{"unknown dedupe driver", func(c *Config) { c.Dedupe.Driver = "memcached" }, "dedupe.driver"},
		{"production short secret", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "short"
		}, "at least 32 characters"},
		{"production without signatures", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = strings.Repeat("x", 32)
		}, "validate_signatures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
