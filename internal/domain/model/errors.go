package model

import "errors"

// Error kinds shared by the simulation pipeline. Callers classify failures
// with errors.Is.
var (
	ErrRecordNotFound    = errors.New("team-season record not found")
	ErrMalformedRecord   = errors.New("malformed team-season record")
	ErrConfiguration     = errors.New("configuration error")
	ErrPrediction        = errors.New("prediction failed")
	ErrDensityEstimation = errors.New("density estimation failed")
	ErrInvalidMatchup    = errors.New("invalid matchup")
)
