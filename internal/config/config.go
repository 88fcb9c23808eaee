// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreXLSX     = "xlsx"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the team-season lookup backend.
	StoreDriver string `koanf:"store_driver"`
	// StoreDSN is the database DSN, or the workbook path for xlsx.
	StoreDSN string `koanf:"store_dsn"`
	// StoreSheet names the workbook sheet holding team-season rows.
	StoreSheet string `koanf:"store_sheet"`

	// TablesPath points at the YAML constant tables (home court, noise, normalization).
	TablesPath string `koanf:"tables_path"`

	// ModelPath points at the exported network weights.
	ModelPath string `koanf:"model_path"`

	// Seed fixes every request's random source when non-zero.
	Seed int64 `koanf:"seed"`

	// DensityGridPoints is the number of points each density curve is evaluated on.
	DensityGridPoints int `koanf:"density_grid_points"`
	// DensityFallbackBandwidth is used for samples whose points are all equal;
	// 0 fails the request instead.
	DensityFallbackBandwidth float64 `koanf:"density_fallback_bandwidth"`

	// RequestTimeoutMS bounds one HTTP prediction request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// HomeColor and AwayColor colour scatter points by the winning side.
	HomeColor string `koanf:"home_color"`
	AwayColor string `koanf:"away_color"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":9080",
		StoreDriver:              StoreSQLite,
		StoreDSN:                 "file:matchup.db?mode=ro",
		StoreSheet:               "Sheet1",
		TablesPath:               "data/tables.yaml",
		ModelPath:                "data/model.json",
		DensityGridPoints:        1024,
		DensityFallbackBandwidth: 1,
		RequestTimeoutMS:         5000,
		CORSOrigins:              []string{"*"},
		HomeColor:                "rgba(0, 91, 187, 0.6)",
		AwayColor:                "rgba(200, 16, 46, 0.6)",
	}
}
