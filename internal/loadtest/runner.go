package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/pkg/logger"
)

// Run executes the load test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if len(config.Matchups) == 0 {
		return nil, errors.New("no matchups to request")
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	log := logger.Get().Named("loadtest")
	log.Info(ctx, "starting matchup load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", workers),
		logger.Duration("timeout", config.Timeout),
	)

	client := newHTTPClient(config.BaseURL, config.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	stats := &Stats{ByStatus: make(map[int]int)}
	start := time.Now()

	var mu sync.Mutex
	jobs := make(chan model.Matchup, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				t0 := time.Now()
				status, p, err := client.predict(ctx, m)
				took := time.Since(t0)
				if err == nil && status == http.StatusOK {
					err = verifyPrediction(p)
					if err != nil {
						err = fmt.Errorf("%w: %w", errInvalid, err)
					}
				}

				mu.Lock()
				stats.Requests++
				stats.ByStatus[status]++
				stats.Latencies = append(stats.Latencies, took)
				switch {
				case err == nil && status == http.StatusOK:
					stats.Successful++
				case errors.Is(err, errInvalid):
					stats.Invalid++
				default:
					stats.Failed++
				}
				mu.Unlock()

				if err != nil && config.Verbose {
					log.Warn(ctx, "request failed", logger.String("matchup", m.String()), logger.Int("status", status), logger.Error(err))
				}
			}
		}()
	}

	func() {
		defer close(jobs)
		for i := 0; i < config.Requests; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- config.Matchups[i%len(config.Matchups)]:
			}
		}
	}()
	wg.Wait()

	stats.Duration = time.Since(start)
	displayFinalStats(ctx, log, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

var errInvalid = errors.New("invalid prediction body")

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient) error {
	status, _, err := client.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// Percentile returns the p-th latency percentile, p in [0, 1].
func (s *Stats) Percentile(p float64) time.Duration {
	if len(s.Latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(s.Latencies))
	copy(sorted, s.Latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var rps float64
	if stats.Duration > 0 {
		rps = float64(stats.Requests) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("requests", stats.Requests),
		logger.Int("successful", stats.Successful),
		logger.Int("invalid", stats.Invalid),
		logger.Int("failed", stats.Failed),
		logger.Any("byStatus", stats.ByStatus),
		logger.Duration("p50", stats.Percentile(0.5)),
		logger.Duration("p99", stats.Percentile(0.99)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", rps),
	)
}
