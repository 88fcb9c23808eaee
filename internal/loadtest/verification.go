package loadtest

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/okian/matchup/internal/domain/aggregate"
	"github.com/okian/matchup/internal/domain/model"
)

// verifyPrediction checks the structural guarantees of a prediction body.
func verifyPrediction(p prediction) error {
	est, err := strconv.Atoi(p.EstWinPct)
	if err != nil {
		return fmt.Errorf("est_win_pct %q is not an integer", p.EstWinPct)
	}
	if est < -100 || est > 100 {
		return fmt.Errorf("est_win_pct %d out of range", est)
	}

	if len(p.HomePoints) != model.PopulationSize || len(p.AwayPoints) != model.PopulationSize {
		return fmt.Errorf("got %d/%d score rows, want %d", len(p.HomePoints), len(p.AwayPoints), model.PopulationSize)
	}
	if len(p.ScatterColor) != 0 && len(p.ScatterColor) != model.PopulationSize {
		return fmt.Errorf("got %d scatter colours, want %d", len(p.ScatterColor), model.PopulationSize)
	}
	if len(p.OverUnderX) == 0 || len(p.OverUnderX) != len(p.OverUnderY) {
		return errors.New("over_under curve axes differ in length")
	}
	if len(p.SpreadX) == 0 || len(p.SpreadX) != len(p.SpreadY) {
		return errors.New("spread curve axes differ in length")
	}

	wins := 0
	for i := range p.HomePoints {
		home, err := strconv.ParseFloat(p.HomePoints[i], 64)
		if err != nil {
			return fmt.Errorf("home_points[%d]: %w", i, err)
		}
		away, err := strconv.ParseFloat(p.AwayPoints[i], 64)
		if err != nil {
			return fmt.Errorf("away_points[%d]: %w", i, err)
		}
		if home > away {
			wins++
		}
	}
	want := aggregate.EstWinPct(float64(wins) / model.PopulationSize)
	if want != est {
		return fmt.Errorf("est_win_pct %d disagrees with %d home wins", est, wins)
	}

	for _, ys := range [][]string{p.OverUnderY, p.SpreadY} {
		for i, s := range ys {
			y, err := strconv.ParseFloat(s, 64)
			if err != nil || y < 0 {
				return fmt.Errorf("density value %d is %q", i, s)
			}
		}
	}
	return nil
}
