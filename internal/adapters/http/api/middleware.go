package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/matchup/pkg/metrics"
)

// statusClientClosed is the de facto status for requests the client abandoned.
const statusClientClosed = 499

// MetricsMiddleware records Prometheus metrics per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		endpoint := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			endpoint = rc.RoutePattern()
		}
		durationMs := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(status)

		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, durationMs)
		if status >= http.StatusBadRequest {
			metrics.RecordError("http", errorClass(status))
		}
	})
}

// errorClass buckets a failed status for the errors_total metric.
func errorClass(status int) string {
	switch status {
	case http.StatusGatewayTimeout:
		return "timeout"
	case statusClientClosed:
		return "client_closed"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "density_estimation"
	case http.StatusBadGateway:
		return "prediction"
	}
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}
