// Package normalize rescales feature populations into the space the
// predictive function was trained on.
package normalize

import (
	"fmt"
	"math"

	"github.com/okian/matchup/internal/domain/model"
	"gonum.org/v1/gonum/mat"
)

// Normalizer applies fixed per-column mean/std scaling. It is immutable and
// safe to share between requests.
type Normalizer struct {
	mean []float64
	std  []float64
}

// New validates the scaling vectors. Both must have model.VectorLen finite
// entries and std must not contain zeros.
func New(mean, std []float64) (*Normalizer, error) {
	if len(mean) != model.VectorLen {
		return nil, fmt.Errorf("%w: mean vector has %d entries, want %d", model.ErrConfiguration, len(mean), model.VectorLen)
	}
	if len(std) != model.VectorLen {
		return nil, fmt.Errorf("%w: std vector has %d entries, want %d", model.ErrConfiguration, len(std), model.VectorLen)
	}
	for j := range std {
		if err := checkColumn(j, mean[j], std[j]); err != nil {
			return nil, err
		}
	}
	n := &Normalizer{mean: make([]float64, len(mean)), std: make([]float64, len(std))}
	copy(n.mean, mean)
	copy(n.std, std)
	return n, nil
}

func checkColumn(j int, mean, std float64) error {
	switch {
	case std == 0:
		return fmt.Errorf("%w: std[%d] is zero", model.ErrConfiguration, j)
	case math.IsNaN(std) || math.IsInf(std, 0):
		return fmt.Errorf("%w: std[%d] is not finite", model.ErrConfiguration, j)
	case math.IsNaN(mean) || math.IsInf(mean, 0):
		return fmt.Errorf("%w: mean[%d] is not finite", model.ErrConfiguration, j)
	}
	return nil
}

// Normalize returns a rows x model.VectorLen matrix where every cell is
// (x - mean[j]) / std[j]. The population is not modified.
func (n *Normalizer) Normalize(pop model.Population) (*mat.Dense, error) {
	if len(pop) == 0 {
		return nil, fmt.Errorf("%w: empty population", model.ErrConfiguration)
	}
	out := mat.NewDense(len(pop), model.VectorLen, nil)
	for i, row := range pop {
		for j, x := range row {
			out.Set(i, j, (x-n.mean[j])/n.std[j])
		}
	}
	return out, nil
}

// Denormalize maps a normalized matrix back to raw feature space.
func (n *Normalizer) Denormalize(m mat.Matrix) model.Population {
	rows, cols := m.Dims()
	pop := make(model.Population, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols && j < model.VectorLen; j++ {
			pop[i][j] = m.At(i, j)*n.std[j] + n.mean[j]
		}
	}
	return pop
}
