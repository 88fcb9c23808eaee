package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/matchup/internal/adapters/repository"
	"github.com/okian/matchup/internal/adapters/tables"
	"github.com/okian/matchup/internal/config"
	"github.com/okian/matchup/internal/domain/density"
	"github.com/okian/matchup/internal/domain/predictor"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
)

// OpenStore opens the lookup store selected by cfg. The returned close
// function releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return repository.NewMemoryStore(), noop, nil
	case config.StoreXLSX:
		s, err := repository.LoadWorkbook(cfg.StoreDSN, cfg.StoreSheet)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.StoreSQLite, config.StorePostgres:
		s, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w %q", repository.ErrUnsupportedDriver, cfg.StoreDriver)
	}
}

// NewFromConfig loads the constant tables and network weights named by cfg
// and builds a Service over store.
func NewFromConfig(cfg *config.Config, store repository.Store, l logger.Logger) (*Service, error) {
	tbl, err := tables.Load(cfg.TablesPath)
	if err != nil {
		return nil, err
	}
	net, err := predictor.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	densityOpts := []density.Option{
		density.WithGridPoints(cfg.DensityGridPoints),
		density.WithFallbackBandwidth(cfg.DensityFallbackBandwidth),
	}
	return New(store, tbl, net,
		WithLogger(l),
		WithSeed(cfg.Seed),
		WithPalette(types.Palette{Home: cfg.HomeColor, Away: cfg.AwayColor}),
		WithDensity(densityOpts...),
	)
}

// RequestTimeout converts the configured per-request bound.
func RequestTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RequestTimeoutMS) * time.Millisecond
}
