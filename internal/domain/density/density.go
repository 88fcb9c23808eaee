// Package density fits one-dimensional Gaussian kernel density estimates
// and evaluates them on an automatic grid.
package density

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/matchup/internal/domain/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Defaults and constants of the bandwidth rule and the automatic grid.
const (
	DefaultGridPoints = 1024
	// DefaultFallbackBandwidth is the bandwidth of a sample whose points are
	// all equal.
	DefaultFallbackBandwidth = 1.0

	// iqrToSigma converts an interquartile range to a normal sigma.
	iqrToSigma = 1.3489795003921634
	// wideToSigma converts the 1st..99th percentile range to a normal sigma.
	wideToSigma = 4.6526957480816815

	// Grid padding beyond the data: max(supportWidths*bw, relativePad*range).
	supportWidths = 3.0
	relativePad   = 0.05
)

// Curve is a density evaluated on an evenly spaced grid.
type Curve struct {
	X         []float64
	Y         []float64
	Bandwidth float64
	// Fallback is set when Bandwidth came from WithFallbackBandwidth.
	Fallback bool
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithGridPoints sets the number of evaluation points.
func WithGridPoints(n int) Option {
	return func(e *Estimator) {
		if n > 1 {
			e.gridPoints = n
		}
	}
}

// WithFallbackBandwidth sets the bandwidth used when the samples carry no
// spread at all. Zero makes such samples fail with ErrDensityEstimation.
func WithFallbackBandwidth(bw float64) Option {
	return func(e *Estimator) {
		if bw >= 0 {
			e.fallbackBandwidth = bw
		}
	}
}

// Estimator fits unweighted Gaussian KDEs with Silverman's bandwidth. It is
// stateless between calls and safe for concurrent use.
type Estimator struct {
	gridPoints        int
	fallbackBandwidth float64
}

// New creates an Estimator.
func New(opts ...Option) *Estimator {
	e := &Estimator{gridPoints: DefaultGridPoints, fallbackBandwidth: DefaultFallbackBandwidth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate fits samples and evaluates the density on the automatic grid.
func (e *Estimator) Estimate(samples []float64) (Curve, error) {
	if len(samples) == 0 {
		return Curve{}, fmt.Errorf("%w: no samples", model.ErrDensityEstimation)
	}
	for i, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Curve{}, fmt.Errorf("%w: non-finite sample at %d", model.ErrDensityEstimation, i)
		}
	}

	bw, err := Silverman(samples)
	fallback := false
	if err != nil {
		if e.fallbackBandwidth <= 0 {
			return Curve{}, err
		}
		bw, fallback = e.fallbackBandwidth, true
	}

	lo, hi := floats.Min(samples), floats.Max(samples)
	pad := math.Max(supportWidths*bw, relativePad*(hi-lo))
	x := make([]float64, e.gridPoints)
	floats.Span(x, lo-pad, hi+pad)

	return Curve{X: x, Y: Evaluate(samples, bw, x), Bandwidth: bw, Fallback: fallback}, nil
}

// Evaluate returns the Gaussian KDE of samples with bandwidth bw at each
// point of grid.
func Evaluate(samples []float64, bw float64, grid []float64) []float64 {
	kernel := distuv.UnitNormal
	norm := 1 / (float64(len(samples)) * bw)
	y := make([]float64, len(grid))
	for i, g := range grid {
		var sum float64
		for _, s := range samples {
			sum += kernel.Prob((g - s) / bw)
		}
		y[i] = sum * norm
	}
	return y
}

// Silverman returns sigma * (3n/4)^(-1/5) where sigma is the smaller of the
// sample standard deviation and the normalised interquartile range. When
// that is zero the 1st..99th percentile range is tried before giving up.
func Silverman(samples []float64) (float64, error) {
	n := len(samples)
	if n < 2 {
		return 0, fmt.Errorf("%w: need at least 2 samples, got %d", model.ErrDensityEstimation, n)
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	factor := math.Pow(float64(n)*3/4, -0.2)

	sigma := stat.StdDev(sorted, nil)
	iqr := (quantile(0.75, sorted) - quantile(0.25, sorted)) / iqrToSigma
	sigma = math.Min(sigma, iqr)
	if sigma > 0 {
		return sigma * factor, nil
	}

	wide := (quantile(0.99, sorted) - quantile(0.01, sorted)) / wideToSigma
	if wide > 0 {
		return wide * factor, nil
	}
	return 0, fmt.Errorf("%w: samples have no spread", model.ErrDensityEstimation)
}

// quantile interpolates linearly between the order statistics around
// (n-1)p, the usual percentile definition of numeric libraries.
func quantile(p float64, sorted []float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
