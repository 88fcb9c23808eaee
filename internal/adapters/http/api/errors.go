package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/matchup/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps a simulation error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidMatchup):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, model.ErrRecordNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return statusClientClosed, "canceled"
	case errors.Is(err, model.ErrDensityEstimation):
		return http.StatusUnprocessableEntity, "density_estimation"
	case errors.Is(err, model.ErrPrediction):
		return http.StatusBadGateway, "prediction_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
