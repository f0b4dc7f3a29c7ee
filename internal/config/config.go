// Package config loads process configuration from config.toml and IOU_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Ledger   LedgerConfig
	Twilio   TwilioConfig
	Notify   NotifyConfig
	Dedupe   DedupeConfig
	Redis    RedisConfig
	JWT      JWTConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// DatabaseConfig selects and configures the record store
type DatabaseConfig struct {
	Driver       string // sqlite or postgres
	Path         string // sqlite file path
	URL          string // postgres connection URL
	MaxOpenConns int
}

// LedgerConfig holds interpreter settings
type LedgerConfig struct {
	Timezone      string
	DefaultRegion string // region for phone numbers written without a country code
}

// TwilioConfig holds Twilio credentials and webhook settings
type TwilioConfig struct {
	AccountSID         string
	AuthToken          string
	FromNumber         string
	ValidateSignatures bool
	PublicURL          string // externally visible base URL, used to check signatures
}

// NotifyConfig selects how replies are delivered
type NotifyConfig struct {
	Driver string // twilio or log
}

// DedupeConfig configures webhook retry de-duplication
type DedupeConfig struct {
	Driver string // memory or redis
	TTL    time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds account API token settings
type JWTConfig struct {
	Secret        string
	TokenDuration time.Duration
}

// Load reads configuration from ./config.toml or /etc/iou/config.toml.
//
// Priority (highest to lowest):
// 1. Environment variables with IOU_ prefix (e.g., IOU_DATABASE_DRIVER)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is like Load but reads the given config file when path is set.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/iou")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("IOU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Database: DatabaseConfig{
			Driver:       v.GetString("database.driver"),
			Path:         v.GetString("database.path"),
			URL:          v.GetString("database.url"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Ledger: LedgerConfig{
			Timezone:      v.GetString("ledger.timezone"),
			DefaultRegion: v.GetString("ledger.default_region"),
		},
		Twilio: TwilioConfig{
			AccountSID:         v.GetString("twilio.account_sid"),
			AuthToken:          v.GetString("twilio.auth_token"),
			FromNumber:         v.GetString("twilio.from_number"),
			ValidateSignatures: v.GetBool("twilio.validate_signatures"),
			PublicURL:          v.GetString("twilio.public_url"),
		},
		Notify: NotifyConfig{
			Driver: v.GetString("notify.driver"),
		},
		Dedupe: DedupeConfig{
			Driver: v.GetString("dedupe.driver"),
			TTL:    v.GetDuration("dedupe.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("jwt.secret"),
			TokenDuration: v.GetDuration("jwt.token_duration"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/iou.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Ledger.Timezone == "" {
		cfg.Ledger.Timezone = "America/Chicago"
	}
	if cfg.Ledger.DefaultRegion == "" {
		cfg.Ledger.DefaultRegion = "US"
	}
	if cfg.Notify.Driver == "" {
		cfg.Notify.Driver = "log"
	}
	if cfg.Dedupe.Driver == "" {
		cfg.Dedupe.Driver = "memory"
	}
	if cfg.Dedupe.TTL == 0 {
		cfg.Dedupe.TTL = 24 * time.Hour
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.JWT.Secret == "" && cfg.App.Env != "production" {
		cfg.JWT.Secret = "dev-secret-change-in-production"
	}
	if cfg.JWT.TokenDuration == 0 {
		cfg.JWT.TokenDuration = 24 * time.Hour
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required when database.driver is postgres")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns cannot be negative")
	}

	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		return fmt.Errorf("ledger.timezone: %w", err)
	}

	switch c.Notify.Driver {
	case "log":
	case "twilio":
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.FromNumber == "" {
			return fmt.Errorf("twilio.account_sid, twilio.auth_token and twilio.from_number are required when notify.driver is twilio")
		}
	default:
		return fmt.Errorf("notify.driver must be twilio or log, got %q", c.Notify.Driver)
	}

	if c.Twilio.ValidateSignatures && (c.Twilio.AuthToken == "" || c.Twilio.PublicURL == "") {
		return fmt.Errorf("twilio.auth_token and twilio.public_url are required to validate signatures")
	}

	switch c.Dedupe.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("dedupe.driver must be memory or redis, got %q", c.Dedupe.Driver)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if !c.Twilio.ValidateSignatures {
			return fmt.Errorf("twilio.validate_signatures must be true in production")
		}
	}

	return nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
