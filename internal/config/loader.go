package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MATCHUP_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if MATCHUP_CONFIG is set
//  3. env (prefix MATCHUP_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// MATCHUP_STORE_DSN -> store_dsn. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "cors_origins" {
			return key, strings.Split(value, ",")
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DensityGridPoints < 2:
		return fmt.Errorf("%w: density_grid_points must be at least 2", ErrInvalidConfig)
	case c.DensityFallbackBandwidth < 0:
		return fmt.Errorf("%w: density_fallback_bandwidth must not be negative", ErrInvalidConfig)
	case c.RequestTimeoutMS < 0:
		return fmt.Errorf("%w: request_timeout_ms must not be negative", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory, StoreXLSX, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("%w %q", ErrUnknownDriver, c.StoreDriver)
	}
	return nil
}
