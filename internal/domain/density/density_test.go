package density_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/okian/matchup/internal/domain/density"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalSamples(n int, mu, sigma float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*rng.NormFloat64()
	}
	return out
}

func trapezoid(x, y []float64) float64 {
	var area float64
	for i := 1; i < len(x); i++ {
		area += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return area
}

func TestEstimate_NormalSample(t *testing.T) {
	samples := normalSamples(2000, 5, 8, 1)

	curve, err := density.New().Estimate(samples)
	require.NoError(t, err)

	require.Len(t, curve.X, density.DefaultGridPoints)
	require.Len(t, curve.Y, density.DefaultGridPoints)
	assert.Greater(t, curve.Bandwidth, 0.0)

	for i := 1; i < len(curve.X); i++ {
		assert.Greater(t, curve.X[i], curve.X[i-1])
	}
	for _, y := range curve.Y {
		assert.GreaterOrEqual(t, y, 0.0)
	}

	assert.InDelta(t, 1.0, trapezoid(curve.X, curve.Y), 1e-3)

	peak := 0
	for i := range curve.Y {
		if curve.Y[i] > curve.Y[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 5.0, curve.X[peak], 1.5)
}

func TestEstimate_GridCoversData(t *testing.T) {
	samples := []float64{-3, -1, 0, 2, 4, 4.5, 7}
	curve, err := density.New(density.WithGridPoints(64)).Estimate(samples)
	require.NoError(t, err)

	require.Len(t, curve.X, 64)
	assert.LessOrEqual(t, curve.X[0], -3-3*curve.Bandwidth+1e-9)
	assert.GreaterOrEqual(t, curve.X[63], 7+3*curve.Bandwidth-1e-9)
}

func TestEstimate_Degenerate(t *testing.T) {
	constant := make([]float64, model.PopulationSize)
	for i := range constant {
		constant[i] = 5
	}

	t.Run("fails fast without a fallback", func(t *testing.T) {
		_, err := density.New(density.WithFallbackBandwidth(0)).Estimate(constant)
		require.ErrorIs(t, err, model.ErrDensityEstimation)
	})

	t.Run("uses a unit bandwidth by default", func(t *testing.T) {
		curve, err := density.New().Estimate(constant)
		require.NoError(t, err)
		assert.Equal(t, 1.0, curve.Bandwidth)
		assert.True(t, curve.Fallback)
		for _, y := range curve.Y {
			assert.False(t, math.IsNaN(y))
		}
		// The grid spans three bandwidths each side of the point mass.
		assert.InDelta(t, 0.9973, trapezoid(curve.X, curve.Y), 1e-3)
	})

	t.Run("rejects empty and non-finite input", func(t *testing.T) {
		_, err := density.New(density.WithFallbackBandwidth(1)).Estimate(nil)
		require.ErrorIs(t, err, model.ErrDensityEstimation)

		_, err = density.New().Estimate([]float64{1, math.NaN(), 3})
		require.ErrorIs(t, err, model.ErrDensityEstimation)
	})
}

func TestSilverman(t *testing.T) {
	t.Run("uses the interquartile range when it is smaller", func(t *testing.T) {
		// IQR = 4 - 2, std = sqrt(2.5).
		bw, err := density.Silverman([]float64{5, 3, 1, 4, 2})
		require.NoError(t, err)

		want := math.Min(math.Sqrt(2.5), 2/1.3489795003921634) * math.Pow(5*3.0/4, -0.2)
		assert.InDelta(t, want, bw, 1e-12)
		assert.InDelta(t, 1.138200, bw, 1e-6)
	})

	t.Run("interpolates percentiles between order statistics", func(t *testing.T) {
		// q25 = 1.75, q75 = 3.25 on 1..4; IQR/1.349 = 1.1120 < std = 1.2910.
		bw, err := density.Silverman([]float64{1, 2, 3, 4})
		require.NoError(t, err)

		want := 1.5 / 1.3489795003921634 * math.Pow(4*3.0/4, -0.2)
		assert.InDelta(t, want, bw, 1e-12)
	})

	t.Run("uses the standard deviation when it is smaller", func(t *testing.T) {
		// q25 = 0, q75 = 10: IQR/1.349 = 7.41 > std = 5.77.
		bw, err := density.Silverman([]float64{0, 0, 10, 10})
		require.NoError(t, err)

		want := math.Sqrt(100.0/3) * math.Pow(3, -0.2)
		assert.InDelta(t, want, bw, 1e-12)
	})

	t.Run("falls back to the wide quantile range", func(t *testing.T) {
		samples := make([]float64, 100)
		for i := 95; i < 100; i++ {
			samples[i] = 10
		}
		bw, err := density.Silverman(samples)
		require.NoError(t, err)
		assert.Greater(t, bw, 0.0)
	})

	t.Run("needs two samples", func(t *testing.T) {
		_, err := density.Silverman([]float64{1})
		require.ErrorIs(t, err, model.ErrDensityEstimation)
	})
}

func TestEvaluate(t *testing.T) {
	y := density.Evaluate([]float64{0}, 1, []float64{0, 1})
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), y[0], 1e-12)
	assert.InDelta(t, math.Exp(-0.5)/math.Sqrt(2*math.Pi), y[1], 1e-12)
}
