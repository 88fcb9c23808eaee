package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/matchup/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsProvider reports simulation counters for /stats.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// OpsHandler serves the operational endpoints: liveness, counters and
// Prometheus metrics.
type OpsHandler struct {
	stats     StatsProvider
	startedAt time.Time
}

// NewOpsHandler creates an OpsHandler reading counters from stats.
func NewOpsHandler(stats StatsProvider) *OpsHandler {
	return &OpsHandler{stats: stats, startedAt: time.Now()}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// HandleHealth answers GET /healthz. It never touches the store or the model.
func (h *OpsHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// HandleStats answers GET /stats.
func (h *OpsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.GetStats(r.Context()))
}

// Metrics serves the custom Prometheus registry.
func (h *OpsHandler) Metrics() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
