// Package predictor defines the contract for the pre-trained scoring model
// and provides a feed-forward network runtime for exported weights.
package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/matchup/internal/domain/model"
	"gonum.org/v1/gonum/mat"
)

// Predictor maps a normalized population, one row per feature vector, to one
// predicted score pair per row in row order. Implementations must be safe for
// concurrent use.
type Predictor interface {
	Predict(ctx context.Context, batch mat.Matrix) ([]model.PredictionPair, error)
}

// Func adapts a function to the Predictor interface.
type Func func(ctx context.Context, batch mat.Matrix) ([]model.PredictionPair, error)

// Predict calls f.
func (f Func) Predict(ctx context.Context, batch mat.Matrix) ([]model.PredictionPair, error) {
	return f(ctx, batch)
}

// Constant returns a Predictor that scores every row as (home, away).
func Constant(home, away float64) Predictor {
	return Func(func(_ context.Context, batch mat.Matrix) ([]model.PredictionPair, error) {
		rows, _ := batch.Dims()
		out := make([]model.PredictionPair, rows)
		for i := range out {
			out[i] = model.PredictionPair{Home: home, Away: away}
		}
		return out, nil
	})
}

// Check verifies that pairs line up with batch and hold finite scores.
func Check(batch mat.Matrix, pairs []model.PredictionPair) error {
	rows, _ := batch.Dims()
	if len(pairs) != rows {
		return fmt.Errorf("%w: got %d predictions for %d rows", model.ErrPrediction, len(pairs), rows)
	}
	for i, p := range pairs {
		if !finite(p.Home) || !finite(p.Away) {
			return fmt.Errorf("%w: non-finite score at row %d", model.ErrPrediction, i)
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
