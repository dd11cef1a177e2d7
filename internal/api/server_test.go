package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/caps-edge/internal/api"
	"github.com/albapepper/caps-edge/internal/cache"
	"github.com/albapepper/caps-edge/internal/config"
	"github.com/albapepper/caps-edge/internal/metrics"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/refresh"
	"github.com/albapepper/caps-edge/internal/scoring"
	"github.com/albapepper/caps-edge/internal/store"
)

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }

// stubRunner returns a canned result, or ErrRunning when busy.
type stubRunner struct {
	busy   bool
	result refresh.Result
	calls  int
	ctxErr error
}

func (s *stubRunner) TryRun(ctx context.Context) (refresh.Result, error) {
	s.calls++
	s.ctxErr = ctx.Err()
	if s.busy {
		return refresh.Result{}, refresh.ErrRunning
	}
	return s.result, nil
}

type fixture struct {
	router http.Handler
	store  *store.SQLite
	cache  *cache.Cache
	runner *stubRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "caps.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	_ = st.UpsertPlayer(ctx, provider.Player{ID: 8471214, Name: "Alex Ovechkin", Position: "L", JerseyNumber: intp(8)})
	_ = st.UpsertPlayer(ctx, provider.Player{ID: 8477493, Name: "Dylan Strome", Position: "C", JerseyNumber: intp(17)})
	_ = st.UpsertPlayerStats(ctx, provider.SkaterStats{PlayerID: 8471214, GamesPlayed: 20, AvgTOI: floatp(18), Points: 20})
	_ = st.UpsertPlayerStats(ctx, provider.SkaterStats{PlayerID: 8477493, GamesPlayed: 20, AvgTOI: floatp(17), Points: 14})
	_ = st.UpsertEdgeStats(ctx, store.EdgeRow{PlayerID: 8471214, MotorIndex: floatp(58.4), MotorPercentile: intp(66)})
	_ = st.ReplaceReferenceTables(ctx, scoring.PositionAverages{
		scoring.Center: {AvgBurstsPer60: 2, AvgDistancePerGame: 2.5, AvgHitsPer60: 4, AvgShotsPer60: 7, AvgOffZonePct: 45, SampleSize: 40},
	}, nil)
	_ = st.SetLastUpdated(ctx, time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC))

	c := cache.New(true)
	t.Cleanup(c.Close)

	runner := &stubRunner{result: refresh.Result{Season: "20252026", EdgeRowsUpserted: 2}}
	cfg := &config.Config{Team: "WSH", MetricsEnabled: true, CORSAllowOrigins: []string{"http://localhost:3000"}}

	return &fixture{
		router: api.NewRouter(api.Deps{Store: st, Cache: c, Config: cfg, Runner: runner, Metrics: metrics.New()}),
		store:  st,
		cache:  c,
		runner: runner,
	}
}

func (f *fixture) do(method, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestRouter(t *testing.T) {
	Convey("Given a router over a seeded store", t, func() {
		f := newFixture(t)

		Convey("GET / describes the API", func() {
			w := f.do(http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["team"], ShouldEqual, "WSH")
			So(w.Header().Get("X-Process-Time"), ShouldEndWith, "ms")
		})

		Convey("GET /health reports player count and last update", func() {
			w := f.do(http.MethodGet, "/health")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["status"], ShouldEqual, "healthy")
			So(body["player_count"], ShouldEqual, 2.0)
			So(body["last_updated"], ShouldEqual, "2026-01-10T09:00:00Z")
		})

		Convey("GET /health/db pings the store", func() {
			w := f.do(http.MethodGet, "/health/db")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["backend"], ShouldEqual, "sqlite")
		})

		Convey("GET /api/v1/players lists by points with scores", func() {
			w := f.do(http.MethodGet, "/api/v1/players")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("X-Cache"), ShouldEqual, "MISS")

			var resp struct {
				Players []struct {
					PlayerID  int `json:"player_id"`
					EdgeStats *struct {
						MotorIndex      *float64 `json:"motor_index"`
						MotorPercentile *int     `json:"motor_percentile"`
						HustleScore     *float64 `json:"hustle_score"`
					} `json:"edge_stats"`
				} `json:"players"`
				Count int `json:"count"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Count, ShouldEqual, 2)
			So(resp.Players[0].PlayerID, ShouldEqual, 8471214)
			So(*resp.Players[0].EdgeStats.MotorIndex, ShouldEqual, 58.4)
			So(*resp.Players[0].EdgeStats.MotorPercentile, ShouldEqual, 66)
			So(resp.Players[0].EdgeStats.HustleScore, ShouldBeNil)
			So(resp.Players[1].EdgeStats, ShouldBeNil)

			Convey("A second request is a cache hit and honours If-None-Match", func() {
				hit := f.do(http.MethodGet, "/api/v1/players")
				So(hit.Header().Get("X-Cache"), ShouldEqual, "HIT")

				etag := hit.Header().Get("ETag")
				So(etag, ShouldNotBeEmpty)
				nm := f.do(http.MethodGet, "/api/v1/players", "If-None-Match", etag)
				So(nm.Code, ShouldEqual, http.StatusNotModified)
			})
		})

		Convey("GET /api/v1/players/{id}", func() {
			w := f.do(http.MethodGet, "/api/v1/players/8477493")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"name":"Dylan Strome"`)

			So(f.do(http.MethodGet, "/api/v1/players/42").Code, ShouldEqual, http.StatusNotFound)

			bad := f.do(http.MethodGet, "/api/v1/players/abc")
			So(bad.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(bad)["error"].(map[string]interface{})["code"], ShouldEqual, "INVALID_PLAYER_ID")
		})

		Convey("GET /api/v1/position-averages", func() {
			w := f.do(http.MethodGet, "/api/v1/position-averages")
			So(w.Code, ShouldEqual, http.StatusOK)
			avgs := decode(w)["averages"].(map[string]interface{})
			So(avgs, ShouldContainKey, "C")
			So(avgs["C"].(map[string]interface{})["sample_size"], ShouldEqual, 40.0)
		})

		Convey("POST /api/v1/refresh", func() {
			w := f.do(http.MethodPost, "/api/v1/refresh")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["players_updated"], ShouldEqual, 2.0)
			So(f.runner.calls, ShouldEqual, 1)

			Convey("is refused while a cycle is running", func() {
				f.runner.busy = true
				w := f.do(http.MethodPost, "/api/v1/refresh")
				So(w.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("reports an aborted cycle as a bad gateway", func() {
				f.runner.result = refresh.Result{Aborted: true, Errors: []string{"roster: boom"}}
				w := f.do(http.MethodPost, "/api/v1/refresh")
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(w.Body.String(), ShouldContainSubstring, "roster: boom")
			})

			Convey("keeps running after the client goes away", func() {
				reqCtx, cancel := context.WithCancel(context.Background())
				cancel()
				req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil).WithContext(reqCtx)
				w := httptest.NewRecorder()
				f.router.ServeHTTP(w, req)
				So(f.runner.calls, ShouldEqual, 2)
				So(f.runner.ctxErr, ShouldBeNil)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("GET /metrics exposes request counters", func() {
			f.do(http.MethodGet, "/health")
			w := f.do(http.MethodGet, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `route="/health`)
		})

		Convey("GET /health/cache reports statistics", func() {
			f.do(http.MethodGet, "/api/v1/players")
			w := f.do(http.MethodGet, "/health/cache")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.Contains(w.Body.String(), `"total_keys":1`), ShouldBeTrue)
		})
	})
}
