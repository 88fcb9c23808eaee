package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
)

// Simulator runs matchup simulations.
type Simulator interface {
	Simulate(ctx context.Context, m model.Matchup) (types.Prediction, error)
}

// PredictionHandler handles prediction requests.
type PredictionHandler struct {
	sim     Simulator
	timeout time.Duration
	logger  logger.Logger
}

// NewPredictionHandler creates a new prediction handler. A positive timeout
// bounds each simulation; the handler itself answers 504 when it expires.
func NewPredictionHandler(sim Simulator, timeout time.Duration, l logger.Logger) *PredictionHandler {
	return &PredictionHandler{sim: sim, timeout: timeout, logger: l}
}

// HandleGetPrediction handles
// GET /api/predictions/{home_team}/{home_season}/{away_team}/{away_season}.
func (h *PredictionHandler) HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	m, err := matchupFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out, err := h.sim.Simulate(ctx, m)
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(ctx, "prediction request failed",
				logger.String("matchup", m.String()),
				logger.Int("status", status),
				logger.Error(err),
			)
		}
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func matchupFromPath(r *http.Request) (model.Matchup, error) {
	param := func(name string) (string, error) {
		v, err := url.PathUnescape(chi.URLParam(r, name))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrBadRequest, name, err)
		}
		return v, nil
	}
	season := func(name string) (int, error) {
		raw, err := param(name)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a year, got %q", ErrBadRequest, name, raw)
		}
		return n, nil
	}

	var m model.Matchup
	var err error
	if m.HomeTeam, err = param("home_team"); err != nil {
		return m, err
	}
	if m.HomeSeason, err = season("home_season"); err != nil {
		return m, err
	}
	if m.AwayTeam, err = param("away_team"); err != nil {
		return m, err
	}
	if m.AwaySeason, err = season("away_season"); err != nil {
		return m, err
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}
