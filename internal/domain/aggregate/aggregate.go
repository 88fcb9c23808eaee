// Package aggregate reduces a batch of predicted scores to the series and
// headline numbers reported for a matchup.
package aggregate

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/okian/matchup/internal/domain/model"
)

// Summary holds derived series and headline statistics for one population.
type Summary struct {
	HomePoints []float64
	AwayPoints []float64
	Totals     []float64
	Spreads    []float64

	// HomeWins counts rows with a strictly higher home score.
	HomeWins   int
	HomeWinPct float64
	// EstWinPct maps HomeWinPct from [0, 1] onto [-100, 100].
	EstWinPct int
	// MeanTotal and MeanSpread are rounded to one decimal.
	MeanTotal  float64
	MeanSpread float64
}

// Aggregate computes the Summary of pairs. pairs must be non-empty.
func Aggregate(pairs []model.PredictionPair) (Summary, error) {
	n := len(pairs)
	if n == 0 {
		return Summary{}, fmt.Errorf("%w: no predictions to aggregate", model.ErrPrediction)
	}

	s := Summary{
		HomePoints: make([]float64, n),
		AwayPoints: make([]float64, n),
		Totals:     make([]float64, n),
		Spreads:    make([]float64, n),
	}
	for i, p := range pairs {
		s.HomePoints[i] = p.Home
		s.AwayPoints[i] = p.Away
		s.Totals[i] = p.Total()
		s.Spreads[i] = p.Spread()
		if p.Home > p.Away {
			s.HomeWins++
		}
	}

	s.HomeWinPct = float64(s.HomeWins) / float64(n)
	s.EstWinPct = EstWinPct(s.HomeWinPct)

	meanTotal, err := stats.Mean(s.Totals)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: mean total: %w", model.ErrPrediction, err)
	}
	meanSpread, err := stats.Mean(s.Spreads)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: mean spread: %w", model.ErrPrediction, err)
	}
	s.MeanTotal = RoundTenth(meanTotal)
	s.MeanSpread = RoundTenth(meanSpread)
	return s, nil
}

// EstWinPct maps a win fraction onto the integer scale [-100, 100].
func EstWinPct(winPct float64) int {
	v := int(math.Round(winPct*200 - 100))
	return max(-100, min(100, v))
}

// RoundTenth rounds x to one decimal place.
func RoundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
