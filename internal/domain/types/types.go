// Package types contains the response shapes returned to callers.
package types

import (
	"strconv"

	"github.com/okian/matchup/internal/domain/aggregate"
	"github.com/okian/matchup/internal/domain/density"
)

// Prediction is the simulation result for one matchup. Every number is a
// decimal string because downstream consumers parse string-typed numerics.
type Prediction struct {
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

// Palette colours scatter points by which side won the row.
type Palette struct {
	Home string
	Away string
}

// NewPrediction renders a summary and its two density curves.
func NewPrediction(s aggregate.Summary, total, spread density.Curve, palette Palette) Prediction {
	colors := make([]string, len(s.HomePoints))
	for i := range colors {
		if s.HomePoints[i] > s.AwayPoints[i] {
			colors[i] = palette.Home
		} else {
			colors[i] = palette.Away
		}
	}
	return Prediction{
		EstWinPct:    strconv.Itoa(s.EstWinPct),
		HomePoints:   FormatSeries(s.HomePoints),
		AwayPoints:   FormatSeries(s.AwayPoints),
		OverUnderX:   FormatSeries(total.X),
		OverUnderY:   FormatSeries(total.Y),
		SpreadX:      FormatSeries(spread.X),
		SpreadY:      FormatSeries(spread.Y),
		OverUnder:    FormatTenth(s.MeanTotal),
		Spread:       FormatTenth(s.MeanSpread),
		ScatterColor: colors,
	}
}

// FormatSeries renders each value with the shortest exact representation.
func FormatSeries(xs []float64) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = strconv.FormatFloat(x, 'f', -1, 64)
	}
	return out
}

// FormatTenth renders x with exactly one decimal.
func FormatTenth(x float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64)
}
