package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchup/internal/adapters/http/api"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type mockDependencies struct {
	got   model.Matchup
	out   types.Prediction
	err   error
	delay time.Duration
}

func (m *mockDependencies) Simulate(ctx context.Context, mu model.Matchup) (types.Prediction, error) {
	m.got = mu
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return types.Prediction{}, fmt.Errorf("predict: %w", ctx.Err())
		}
	}
	return m.out, m.err
}

func (m *mockDependencies) GetStats(context.Context) map[string]any {
	return map[string]any{"simulations": 3}
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &mockDependencies{out: types.Prediction{EstWinPct: "100", OverUnder: "145.0", Spread: "5.0"}}
		router := api.NewServer(deps).Router()

		Convey("When requesting a prediction", func() {
			w := serve(router, http.MethodGet, "/api/predictions/St.%20John%27s/2019/Duke/2018")

			Convey("Then the matchup is parsed from the path", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.got, ShouldResemble, model.Matchup{HomeTeam: "St. John's", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2018})
			})

			Convey("Then the body uses string-typed fields", func() {
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["est_win_pct"], ShouldEqual, "100")
				So(body["over_under"], ShouldEqual, "145.0")
				So(body["spread"], ShouldEqual, "5.0")
			})
		})

		Convey("When the season is not a number", func() {
			w := serve(router, http.MethodGet, "/api/predictions/Kansas/latest/Duke/2018")

			Convey("Then it returns 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "home_season")
			})
		})

		Convey("When health, stats and metrics are requested", func() {
			health := serve(router, http.MethodGet, "/healthz")
			stats := serve(router, http.MethodGet, "/stats")
			metrics := serve(router, http.MethodGet, "/metrics")

			Convey("Then each responds", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, `"ok"`)
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(stats.Body.String(), ShouldContainSubstring, `"simulations":3`)
				So(metrics.Code, ShouldEqual, http.StatusOK)
				So(metrics.Body.String(), ShouldContainSubstring, "matchup_simulation_http_requests_total")
			})
		})

		Convey("When the API docs are requested", func() {
			doc := serve(router, http.MethodGet, "/openapi.yaml")
			page := serve(router, http.MethodGet, "/api-docs")

			Convey("Then both are served", func() {
				So(doc.Code, ShouldEqual, http.StatusOK)
				So(doc.Body.String(), ShouldContainSubstring, "est_win_pct")
				So(page.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When an unknown path is requested", func() {
			w := serve(router, http.MethodGet, "/leaderboard")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a CORS preflight arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/predictions/Kansas/2019/Duke/2018", nil)
			req.Header.Set("Origin", "https://bracket.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Convey("Then the origin is allowed", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})
}

func TestServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("assemble home side: %w", model.ErrRecordNotFound), http.StatusNotFound, "not_found"},
		{model.ErrInvalidMatchup, http.StatusBadRequest, "bad_request"},
		{fmt.Errorf("total density: %w", model.ErrDensityEstimation), http.StatusUnprocessableEntity, "density_estimation"},
		{fmt.Errorf("%w: 3 rows", model.ErrPrediction), http.StatusBadGateway, "prediction_failed"},
		{fmt.Errorf("%w: Kansas 2019", model.ErrMalformedRecord), http.StatusInternalServerError, "internal_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	Convey("Given simulation failures of each kind", t, func() {
		for _, tc := range cases {
			deps := &mockDependencies{err: tc.err}
			router := api.NewServer(deps).Router()

			w := serve(router, http.MethodGet, "/api/predictions/Kansas/2019/Duke/2018")

			var body struct {
				Code string `json:"code"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(w.Code, ShouldEqual, tc.status)
			So(body.Code, ShouldEqual, tc.code)
		}
	})
}

// headerCounter counts WriteHeader calls reaching the recorder.
type headerCounter struct {
	*httptest.ResponseRecorder
	headers int
}

func (h *headerCounter) WriteHeader(code int) {
	h.headers++
	h.ResponseRecorder.WriteHeader(code)
}

func TestServer_Timeout(t *testing.T) {
	Convey("Given a slow simulation and a short request timeout", t, func() {
		deps := &mockDependencies{delay: time.Second}
		router := api.NewServer(deps,
			api.WithRequestTimeout(20*time.Millisecond),
			api.WithCORSOrigins([]string{"https://bracket.example"}),
		).Router()

		w := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/predictions/Kansas/2019/Duke/2018", nil))

		Convey("Then the request fails with a single 504 carrying the error body", func() {
			So(w.Code, ShouldEqual, http.StatusGatewayTimeout)
			So(w.headers, ShouldEqual, 1)
			So(strings.Contains(w.Body.String(), `"code":"timeout"`), ShouldBeTrue)
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a prediction that fails in the model", t, func() {
		deps := &mockDependencies{err: fmt.Errorf("%w: nan", model.ErrPrediction)}
		router := api.NewServer(deps).Router()

		w := serve(router, http.MethodGet, "/api/predictions/Kansas/2019/Duke/2018")
		scrape := serve(router, http.MethodGet, "/metrics")

		Convey("Then the route pattern and error class are recorded", func() {
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			body := scrape.Body.String()
			So(body, ShouldContainSubstring, `endpoint="/api/predictions/{home_team}/{home_season}/{away_team}/{away_season}"`)
			So(body, ShouldContainSubstring, `status_code="502"`)
			So(body, ShouldContainSubstring, `kind="prediction"`)
		})
	})
}
