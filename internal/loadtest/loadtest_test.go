package loadtest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/loadtest"
	"github.com/okian/matchup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func body(homeWins int, curveLen int) map[string]any {
	home := make([]string, model.PopulationSize)
	away := make([]string, model.PopulationSize)
	for i := range home {
		if i < homeWins {
			home[i], away[i] = "80", "70"
		} else {
			home[i], away[i] = "70", "80"
		}
	}
	xs := make([]string, curveLen)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}
	return map[string]any{
		"est_win_pct":   strconv.Itoa(2*homeWins - 100),
		"home_points":   home,
		"away_points":   away,
		"over_under_x":  xs,
		"over_under_y":  xs,
		"spread_x":      xs,
		"spread_y":      xs,
		"over_under":    "150.0",
		"spread":        "0.0",
		"scatter_color": []string{},
	}
}

func newService(payload map[string]any, hits *atomic.Int64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/predictions/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.EscapedPath() == "/api/predictions/Nowhere/2019/Duke/2019" {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a service answering with valid predictions", t, func() {
		var hits atomic.Int64
		srv := newService(body(60, 8), &hits)
		defer srv.Close()

		cfg := &loadtest.Config{
			BaseURL:  srv.URL,
			Matchups: []model.Matchup{{HomeTeam: "St. John's", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2019}},
			Requests: 25,
			Workers:  4,
			Timeout:  time.Second,
		}

		stats, err := loadtest.Run(context.Background(), cfg)

		Convey("Then every request succeeds", func() {
			So(err, ShouldBeNil)
			So(hits.Load(), ShouldEqual, int64(25))
			So(stats.Requests, ShouldEqual, 25)
			So(stats.Successful, ShouldEqual, 25)
			So(stats.ByStatus[http.StatusOK], ShouldEqual, 25)
			So(len(stats.Latencies), ShouldEqual, 25)
			So(stats.Percentile(0.99), ShouldBeGreaterThanOrEqualTo, stats.Percentile(0.5))
		})
	})

	Convey("Given a service whose win estimate disagrees with its scores", t, func() {
		var hits atomic.Int64
		payload := body(60, 8)
		payload["est_win_pct"] = "0"
		srv := newService(payload, &hits)
		defer srv.Close()

		stats, err := loadtest.Run(context.Background(), &loadtest.Config{
			BaseURL:  srv.URL,
			Matchups: []model.Matchup{{HomeTeam: "Kansas", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2019}},
			Requests: 3,
			Workers:  1,
			Timeout:  time.Second,
		})

		Convey("Then the responses are counted as invalid", func() {
			So(err, ShouldBeNil)
			So(stats.Invalid, ShouldEqual, 3)
			So(stats.Successful, ShouldEqual, 0)
		})
	})

	Convey("Given a mix of known and unknown teams", t, func() {
		var hits atomic.Int64
		srv := newService(body(100, 4), &hits)
		defer srv.Close()

		stats, err := loadtest.Run(context.Background(), &loadtest.Config{
			BaseURL: srv.URL,
			Matchups: []model.Matchup{
				{HomeTeam: "Kansas", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2019},
				{HomeTeam: "Nowhere", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2019},
			},
			Requests: 10,
			Workers:  2,
			Timeout:  time.Second,
		})

		Convey("Then failures are tallied by status", func() {
			So(err, ShouldBeNil)
			So(stats.Successful, ShouldEqual, 5)
			So(stats.Failed, ShouldEqual, 5)
			So(stats.ByStatus[http.StatusNotFound], ShouldEqual, 5)
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := loadtest.Run(context.Background(), &loadtest.Config{
			BaseURL:  srv.URL,
			Matchups: []model.Matchup{{HomeTeam: "Kansas", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2019}},
			Requests: 1,
			Workers:  1,
			Timeout:  time.Second,
		})

		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "health check")
	})

	Convey("Given no matchups", t, func() {
		_, err := loadtest.Run(context.Background(), &loadtest.Config{BaseURL: "http://127.0.0.1:0", Requests: 1})
		So(err, ShouldNotBeNil)
	})
}

func TestParseMatchups(t *testing.T) {
	Convey("Given a comma-separated list", t, func() {
		ms, err := loadtest.ParseMatchups("Kansas:2019@Duke:2018, ,St. John's:2020@UConn:2020")

		So(err, ShouldBeNil)
		So(len(ms), ShouldEqual, 2)
		So(ms[1].HomeTeam, ShouldEqual, "St. John's")
		So(ms[0].AwaySeason, ShouldEqual, 2018)
	})

	Convey("Given a malformed entry", t, func() {
		_, err := loadtest.ParseMatchups("Kansas@Duke")
		So(err, ShouldNotBeNil)
	})
}
