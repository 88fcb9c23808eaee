// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/okian/matchup/internal/adapters/http/swagger"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Simulate runs one matchup simulation.
	Simulate(ctx context.Context, m model.Matchup) (types.Prediction, error)
	StatsProvider
}

// Server wires HTTP routes for the prediction API.
type Server struct {
	ops         *OpsHandler
	predictions *PredictionHandler

	corsOrigins    []string
	requestTimeout time.Duration
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithRequestTimeout bounds each prediction request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		corsOrigins:    []string{"*"},
		requestTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.ops = NewOpsHandler(deps)
	s.predictions = NewPredictionHandler(deps, s.requestTimeout, s.logger)
	return s
}

// Router builds the chi router holding every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.ops.HandleHealth)
	r.Handle("/metrics", s.ops.Metrics())
	r.Get("/stats", s.ops.HandleStats)
	swagger.Register(r)

	r.Route("/api", func(r chi.Router) {
		r.Get("/predictions/{home_team}/{home_season}/{away_team}/{away_season}", s.predictions.HandleGetPrediction)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
