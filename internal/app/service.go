// Package service runs matchup simulations: it wires the lookup store,
// perturbation sampler, normalizer, predictor and density estimator into a
// single request pipeline used by the HTTP API and the batch runner.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/matchup/internal/adapters/repository"
	"github.com/okian/matchup/internal/adapters/tables"
	"github.com/okian/matchup/internal/domain/aggregate"
	"github.com/okian/matchup/internal/domain/density"
	"github.com/okian/matchup/internal/domain/features"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/normalize"
	"github.com/okian/matchup/internal/domain/perturb"
	"github.com/okian/matchup/internal/domain/predictor"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
	"github.com/okian/matchup/pkg/metrics"
	"gonum.org/v1/gonum/mat"
)

// ErrMissingDependency is returned by New when a collaborator is nil.
var ErrMissingDependency = errors.New("missing service dependency")

// Service simulates matchups. Safe for concurrent use; every call owns its
// random source and intermediate buffers.
type Service struct {
	store      repository.Store
	assembler  *features.Assembler
	sampler    *perturb.Sampler
	normalizer *normalize.Normalizer
	predictor  predictor.Predictor
	estimator  *density.Estimator

	// Configuration
	seed          int64
	palette       types.Palette
	densityOpts   []density.Option
	noiseProfiles int

	// State
	seq         atomic.Int64
	simulations atomic.Int64
	failures    atomic.Int64
	startedAt   time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed makes every simulation draw from a generator seeded with seed.
// Zero keeps per-request seeding.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithPalette sets the scatter colours.
func WithPalette(p types.Palette) Option {
	return func(s *Service) {
		if p.Home != "" {
			s.palette.Home = p.Home
		}
		if p.Away != "" {
			s.palette.Away = p.Away
		}
	}
}

// WithDensity configures the density estimator.
func WithDensity(opts ...density.Option) Option {
	return func(s *Service) {
		s.densityOpts = append(s.densityOpts, opts...)
	}
}

// New constructs a Service over a lookup store, the constant tables and a
// predictor.
func New(store repository.Store, tbl *tables.Tables, pred predictor.Predictor, opts ...Option) (*Service, error) {
	switch {
	case store == nil:
		return nil, fmt.Errorf("%w: store", ErrMissingDependency)
	case tbl == nil || tbl.Noise == nil || tbl.Normalizer == nil:
		return nil, fmt.Errorf("%w: tables", ErrMissingDependency)
	case pred == nil:
		return nil, fmt.Errorf("%w: predictor", ErrMissingDependency)
	}

	s := &Service{
		store:      store,
		assembler:  features.NewAssembler(store, tbl.HomeCourt),
		sampler:    perturb.NewSampler(tbl.Noise),
		normalizer: tbl.Normalizer,
		predictor:  pred,
		palette:    types.Palette{Home: "home", Away: "away"},
		startedAt:  time.Now(),

		noiseProfiles: tbl.Noise.Len(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.estimator = density.New(s.densityOpts...)
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s, nil
}

// Simulate runs the full pipeline for one matchup.
func (s *Service) Simulate(ctx context.Context, m model.Matchup) (types.Prediction, error) {
	start := time.Now()
	ctx = logger.WithRequestID(ctx, uuid.NewString())

	out, summary, err := s.simulate(ctx, m)
	elapsed := time.Since(start)
	if err != nil {
		s.failures.Add(1)
		kind := ErrorKind(err)
		metrics.RecordSimulation(metrics.OutcomeError, float64(elapsed.Microseconds())/1000)
		metrics.RecordError("service", kind)
		s.logger.Warn(ctx, "simulation failed",
			logger.String("matchup", m.String()),
			logger.String("kind", kind),
			logger.Error(err),
		)
		return types.Prediction{}, err
	}

	s.simulations.Add(1)
	metrics.RecordSimulation(metrics.OutcomeOK, float64(elapsed.Microseconds())/1000)
	metrics.RecordHomeWinPct(summary.HomeWinPct)
	s.logger.Info(ctx, "simulated matchup",
		logger.String("matchup", m.String()),
		logger.Float64("home_win_pct", summary.HomeWinPct),
		logger.String("over_under", out.OverUnder),
		logger.String("spread", out.Spread),
		logger.Duration("took", elapsed),
	)
	return out, nil
}

func (s *Service) simulate(ctx context.Context, m model.Matchup) (types.Prediction, aggregate.Summary, error) {
	var none aggregate.Summary
	if err := m.Validate(); err != nil {
		return types.Prediction{}, none, err
	}

	base, err := s.assembler.Assemble(ctx, m)
	if err != nil {
		return types.Prediction{}, none, err
	}

	pop := s.sampler.Population(s.rand(), m, base, model.Draws)
	batch, err := s.normalizer.Normalize(pop)
	if err != nil {
		return types.Prediction{}, none, fmt.Errorf("normalize population: %w", err)
	}

	pairs, err := s.predict(ctx, batch)
	if err != nil {
		return types.Prediction{}, none, err
	}

	summary, err := aggregate.Aggregate(pairs)
	if err != nil {
		return types.Prediction{}, none, err
	}

	total, err := s.curve("total", summary.Totals)
	if err != nil {
		return types.Prediction{}, none, err
	}
	spread, err := s.curve("spread", summary.Spreads)
	if err != nil {
		return types.Prediction{}, none, err
	}

	return types.NewPrediction(summary, total, spread, s.palette), summary, nil
}

func (s *Service) predict(ctx context.Context, batch *mat.Dense) ([]model.PredictionPair, error) {
	start := time.Now()
	pairs, err := s.predictor.Predict(ctx, batch)
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		if errors.Is(err, model.ErrPrediction) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("predict: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", model.ErrPrediction, err)
	}
	if err := predictor.Check(batch, pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func (s *Service) curve(series string, samples []float64) (density.Curve, error) {
	c, err := s.estimator.Estimate(samples)
	if err != nil {
		return density.Curve{}, fmt.Errorf("%s density: %w", series, err)
	}
	metrics.RecordDensityBandwidth(series, c.Bandwidth)
	if c.Fallback {
		metrics.RecordDensityFallback()
	}
	return c, nil
}

// rand returns a generator owned by one simulation.
func (s *Service) rand() *rand.Rand {
	if s.seed != 0 {
		return rand.New(rand.NewSource(s.seed)) //nolint:gosec // simulation noise, not security sensitive
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() + s.seq.Add(1))) //nolint:gosec // simulation noise
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"simulations":   s.simulations.Load(),
		"failures":      s.failures.Load(),
		"seeded":        s.seed != 0,
		"noiseProfiles": s.noiseProfiles,
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
	}
	if n, err := s.store.Count(ctx); err == nil {
		stats["storeRecords"] = n
		metrics.UpdateStoreRecords(n)
	} else {
		s.logger.Warn(ctx, "count store records", logger.Error(err))
	}
	return stats
}

// ErrorKind names the error class of err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInvalidMatchup):
		return "invalid_matchup"
	case errors.Is(err, model.ErrRecordNotFound):
		return "record_not_found"
	case errors.Is(err, model.ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, model.ErrDensityEstimation):
		return "density_estimation"
	case errors.Is(err, model.ErrPrediction):
		return "prediction"
	case errors.Is(err, model.ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}
