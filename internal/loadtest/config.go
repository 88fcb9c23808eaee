// Package loadtest drives a running matchup service over HTTP: it checks
// liveness, fires prediction requests concurrently and verifies every
// response body.
package loadtest

import (
	"time"

	"github.com/okian/matchup/internal/domain/model"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL  string          // Base URL of the service
	Matchups []model.Matchup // Matchups to request, cycled
	Requests int             // Total number of prediction requests
	Workers  int             // Number of concurrent workers
	Timeout  time.Duration   // HTTP request timeout
	Verbose  bool            // Log every failure
}

// Stats holds run statistics.
type Stats struct {
	Requests   int
	Successful int
	Invalid    int // 200 responses that failed verification
	Failed     int
	ByStatus   map[int]int
	Latencies  []time.Duration
	Duration   time.Duration
}

// prediction mirrors the JSON body of a prediction response.
type prediction struct {
	EstWinPct    string   `json:"est_win_pct"`
	HomePoints   []string `json:"home_points"`
	AwayPoints   []string `json:"away_points"`
	OverUnderX   []string `json:"over_under_x"`
	OverUnderY   []string `json:"over_under_y"`
	SpreadX      []string `json:"spread_x"`
	SpreadY      []string `json:"spread_y"`
	OverUnder    string   `json:"over_under"`
	Spread       string   `json:"spread"`
	ScatterColor []string `json:"scatter_color"`
}
