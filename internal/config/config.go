// Package config loads process configuration from REWARDS_* environment variables.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

// Storage backends for proficiency XP
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the process configuration. Command line flags override it.
type Config struct {
	RedisAddr  string `env:"REWARDS_REDIS_ADDR"  envDefault:"localhost:6379"`
	Store      string `env:"REWARDS_STORE"       envDefault:"redis"`
	SQLitePath string `env:"REWARDS_SQLITE_PATH" envDefault:"rewards.db"`
	ContentDir string `env:"REWARDS_CONTENT_DIR" envDefault:"content"`
	WorldTier  string `env:"REWARDS_WORLD_TIER"`
	// OTelEndpoint enables trace export when set, e.g. http://localhost:4318
	OTelEndpoint string `env:"REWARDS_OTEL_ENDPOINT"`
	LogLevel     string `env:"REWARDS_LOG_LEVEL" envDefault:"info"`

	InventoryCapacity int           `env:"REWARDS_INVENTORY_CAPACITY" envDefault:"30"`
	RewardLogTTL      time.Duration `env:"REWARDS_LOG_TTL"            envDefault:"24h"`
	RewardLogMax      int           `env:"REWARDS_LOG_MAX_ENTRIES"    envDefault:"100"`
	// AttributeCaps is a comma separated list of attribute:cap pairs
	AttributeCaps map[string]float64 `env:"REWARDS_ATTRIBUTE_CAPS" envSeparator:"," envKeyValSeparator:":"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	switch c.Store {
	case StoreRedis:
		errors.ValidateRequired("REWARDS_REDIS_ADDR", c.RedisAddr, vb)
	case StoreSQLite:
		errors.ValidateRequired("REWARDS_SQLITE_PATH", c.SQLitePath, vb)
	default:
		vb.Fieldf("REWARDS_STORE", "must be %q or %q, got %q", StoreRedis, StoreSQLite, c.Store)
	}
	if c.InventoryCapacity < 1 {
		vb.Fieldf("REWARDS_INVENTORY_CAPACITY", "must be at least 1, got %d", c.InventoryCapacity)
	}
	if c.RewardLogTTL <= 0 {
		vb.Field("REWARDS_LOG_TTL", "must be positive")
	}
	if c.RewardLogMax < 1 {
		vb.Fieldf("REWARDS_LOG_MAX_ENTRIES", "must be at least 1, got %d", c.RewardLogMax)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("REWARDS_LOG_LEVEL", "unknown level %q", c.LogLevel)
	}

	return vb.Build()
}

// SlogLevel returns the configured log level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
