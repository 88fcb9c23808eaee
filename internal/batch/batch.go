// Package batch simulates many matchups concurrently and exports the results.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
	"github.com/okian/matchup/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrSyntax is returned for matchup strings that do not parse.
var ErrSyntax = errors.New("invalid matchup syntax")

// Simulator runs one matchup simulation.
type Simulator interface {
	Simulate(ctx context.Context, m model.Matchup) (types.Prediction, error)
}

// Result pairs a matchup with its prediction or failure.
type Result struct {
	Matchup    model.Matchup
	Prediction types.Prediction
	Err        error
	Took       time.Duration
}

// ParseMatchup parses "HomeTeam:2019@AwayTeam:2018". Team names may contain
// spaces and dots; the season follows the last colon of each side.
func ParseMatchup(s string) (model.Matchup, error) {
	home, away, ok := strings.Cut(s, "@")
	if !ok {
		return model.Matchup{}, fmt.Errorf("%w: %q has no @", ErrSyntax, s)
	}
	var m model.Matchup
	var err error
	if m.HomeTeam, m.HomeSeason, err = parseSide(home); err != nil {
		return model.Matchup{}, fmt.Errorf("%w: home side of %q: %w", ErrSyntax, s, err)
	}
	if m.AwayTeam, m.AwaySeason, err = parseSide(away); err != nil {
		return model.Matchup{}, fmt.Errorf("%w: away side of %q: %w", ErrSyntax, s, err)
	}
	if err := m.Validate(); err != nil {
		return model.Matchup{}, err
	}
	return m, nil
}

func parseSide(s string) (string, int, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return "", 0, errors.New("missing :season")
	}
	season, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return "", 0, fmt.Errorf("season: %w", err)
	}
	return strings.TrimSpace(s[:i]), season, nil
}

// ReadMatchups parses one matchup per line. Blank lines and lines starting
// with # are skipped.
func ReadMatchups(r io.Reader) ([]model.Matchup, error) {
	var out []model.Matchup
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		m, err := ParseMatchup(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read matchups: %w", err)
	}
	return out, nil
}

// Runner simulates matchups with bounded concurrency.
type Runner struct {
	sim     Simulator
	workers int
	logger  logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithWorkers bounds the number of concurrent simulations.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner over sim.
func NewRunner(sim Simulator, opts ...Option) *Runner {
	r := &Runner{sim: sim, workers: 4}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("batch")
	}
	return r
}

// Run simulates every matchup and returns results in input order. A failed
// matchup is reported in its Result; Run itself only fails when ctx ends.
func (r *Runner) Run(ctx context.Context, matchups []model.Matchup) ([]Result, error) {
	results := make([]Result, len(matchups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, m := range matchups {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			metrics.AddBatchInFlight(1)
			defer metrics.AddBatchInFlight(-1)

			start := time.Now()
			out, err := r.sim.Simulate(gctx, m)
			results[i] = Result{Matchup: m, Prediction: out, Err: err, Took: time.Since(start)}
			if err != nil {
				metrics.RecordBatchMatchup(metrics.OutcomeError)
				r.logger.Warn(gctx, "matchup failed", logger.String("matchup", m.String()), logger.Error(err))
				return nil
			}
			metrics.RecordBatchMatchup(metrics.OutcomeOK)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}
