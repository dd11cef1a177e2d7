package nhl_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/caps-edge/internal/metrics"
	"github.com/albapepper/caps-edge/internal/provider/nhl"
)

// fakeNHL serves canned responses for both NHL hosts from one server.
func fakeNHL(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/web/roster/WSH/20252026", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"forwards": []map[string]interface{}{
				{"id": 8471214, "firstName": map[string]string{"default": "Alex"}, "lastName": map[string]string{"default": "Ovechkin"}, "positionCode": "L", "sweaterNumber": 8},
				{"id": 8477493, "firstName": map[string]string{"default": "Dylan"}, "lastName": map[string]string{"default": "Strome"}, "positionCode": "C", "sweaterNumber": 17},
			},
			"defensemen": []map[string]interface{}{
				{"id": 8476880, "firstName": map[string]string{"default": "Tom"}, "lastName": map[string]string{"default": "Wilson"}, "positionCode": "D"},
			},
			"goalies": []map[string]interface{}{
				{"id": 8480382, "firstName": map[string]string{"default": "Logan"}, "lastName": map[string]string{"default": "Thompson"}, "positionCode": "G"},
			},
		})
	})

	// 150 summary rows over two pages; the realtime report fits one page.
	mux.HandleFunc("/stats/skater/summary", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("cayenneExp"), "seasonId=20252026") {
			http.Error(w, "bad season", http.StatusBadRequest)
			return
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		var rows []map[string]interface{}
		for i := start; i < 150 && i < start+100; i++ {
			rows = append(rows, map[string]interface{}{
				"playerId":         1000 + i,
				"positionCode":     "C",
				"gamesPlayed":      5 + i%20,
				"timeOnIcePerGame": 900.0,
				"shots":            30,
				"goals":            4,
				"assists":          6,
				"points":           10,
				"plusMinus":        -2,
				"penaltyMinutes":   8,
				"faceoffWinPct":    0.512,
			})
		}
		if start == 0 {
			rows[0]["playerId"] = 8471214
			rows[0]["positionCode"] = "L"
			rows[0]["gamesPlayed"] = 20
		}
		writeJSON(w, map[string]interface{}{"data": rows, "total": 150})
	})
	mux.HandleFunc("/stats/skater/realtime", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"data":  []map[string]interface{}{{"playerId": 8471214, "hits": 44}},
			"total": 1,
		})
	})

	mux.HandleFunc("/web/edge/skater-detail/8471214/20252026/2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"player": map[string]interface{}{"gamesPlayed": 20},
			"skatingSpeed": map[string]interface{}{
				"speedMax":     map[string]interface{}{"imperial": 22.87, "metric": 36.8, "percentile": 0.71},
				"burstsOver20": map[string]interface{}{"value": 15, "percentile": 0.654},
			},
			"totalDistanceSkated": map[string]interface{}{"imperial": 61.0, "percentile": 0.5},
			"zoneTimeDetails": map[string]interface{}{
				"offensiveZonePctg":       0.4567,
				"offensiveZonePercentile": 0.93,
				"defensiveZonePctg":       0.35,
				"neutralZonePctg":         0.1933,
			},
			"topShotSpeed": map[string]interface{}{"imperial": 96.1, "percentile": 0.99},
		})
	})
	mux.HandleFunc("/web/edge/skater-skating-speed-detail/8471214/20252026/2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"skatingSpeedDetails": map[string]interface{}{
				"burstsOver22": map[string]interface{}{"value": 3, "percentile": 0.4},
			},
		})
	})
	mux.HandleFunc("/web/edge/skater-zone-time/8471214/20252026/2", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newHandler(srv *httptest.Server, rec *metrics.Recorder) *nhl.Handler {
	client := nhl.NewClient(srv.URL+"/stats", srv.URL+"/web", 60000, nil, rec)
	return nhl.NewHandlerWithClient(client, nil)
}

func TestCurrentSeason(t *testing.T) {
	Convey("The season rolls over in October", t, func() {
		So(nhl.CurrentSeason(time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)), ShouldEqual, "20242025")
		So(nhl.CurrentSeason(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, "20252026")
		So(nhl.CurrentSeason(time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)), ShouldEqual, "20252026")
	})
}

func TestHandler(t *testing.T) {
	Convey("Given a handler against a fake NHL API", t, func() {
		srv := fakeNHL(t)
		rec := metrics.New()
		h := newHandler(srv, rec)
		ctx := context.Background()

		Convey("GetRoster returns skaters only", func() {
			players, err := h.GetRoster(ctx, "WSH", "20252026")
			So(err, ShouldBeNil)
			So(len(players), ShouldEqual, 3)
			So(players[0].Name, ShouldEqual, "Alex Ovechkin")
			So(*players[0].JerseyNumber, ShouldEqual, 8)
			So(players[2].Position, ShouldEqual, "D")
			So(players[2].JerseyNumber, ShouldBeNil)
		})

		Convey("GetRoster wraps a missing team as not found", func() {
			_, err := h.GetRoster(ctx, "XXX", "20252026")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not found")
		})

		Convey("Summary pages are followed until a short page", func() {
			rows, err := h.GetSkaterSummaries(ctx, "20252026")
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 150)
		})

		Convey("GetSkaterStats merges summary and realtime rows", func() {
			stats, err := h.GetSkaterStats(ctx, "20252026", []int{8471214, 42})
			So(err, ShouldBeNil)

			ovi := stats[8471214]
			So(ovi.GamesPlayed, ShouldEqual, 20)
			So(*ovi.AvgTOI, ShouldEqual, 15.0)
			So(ovi.Hits, ShouldEqual, 44)
			So(ovi.PIM, ShouldEqual, 8)
			// 30 shots over 300 minutes
			So(*ovi.ShotsPer60, ShouldEqual, 6.0)

			missing := stats[42]
			So(missing.PlayerID, ShouldEqual, 42)
			So(missing.GamesPlayed, ShouldEqual, 0)
			So(missing.AvgTOI, ShouldBeNil)
			So(missing.ShotsPer60, ShouldBeNil)
		})

		Convey("GetLeagueSamples keeps players with enough games", func() {
			samples, err := h.GetLeagueSamples(ctx, "20252026")
			So(err, ShouldBeNil)
			So(len(samples), ShouldBeGreaterThan, 0)
			So(len(samples), ShouldBeLessThan, 150)
			for _, s := range samples {
				So(s.GamesPlayed, ShouldBeGreaterThanOrEqualTo, 10)
			}
			So(samples[0].GamesPlayed, ShouldBeGreaterThanOrEqualTo, samples[len(samples)-1].GamesPlayed)
		})

		Convey("GetEdgeStats normalizes the Edge payloads", func() {
			e, err := h.GetEdgeStats(ctx, 8471214, "20252026")
			So(err, ShouldBeNil)
			So(e, ShouldNotBeNil)
			So(*e.TopSpeedMPH, ShouldEqual, 22.87)
			So(*e.TopSpeedPercentile, ShouldEqual, 71)
			So(*e.Bursts20Plus, ShouldEqual, 15)
			So(*e.Bursts20Percentile, ShouldEqual, 65)
			So(*e.Bursts22Plus, ShouldEqual, 3)
			So(*e.DistancePerGameMiles, ShouldEqual, 3.05)
			So(*e.OffZoneTimePct, ShouldEqual, 45.7)
			So(*e.NeuZoneTimePct, ShouldEqual, 19.3)
			So(e.DefZonePercentile, ShouldBeNil)

			Convey("A failed zone time call leaves zone starts empty", func() {
				So(e.ZoneStartsOffPct, ShouldBeNil)
				So(e.ZoneStartsPercentile, ShouldBeNil)
			})
		})

		Convey("GetEdgeStats returns nil for players without Edge data", func() {
			e, err := h.GetEdgeStats(ctx, 1, "20252026")
			So(err, ShouldBeNil)
			So(e, ShouldBeNil)
		})

		Convey("Upstream requests are recorded by endpoint", func() {
			_, _ = h.GetRoster(ctx, "WSH", "20252026")
			w := httptest.NewRecorder()
			rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(w.Body.String(), ShouldContainSubstring, `endpoint="roster"`)
		})
	})
}

func TestNormalizeEdgeStats(t *testing.T) {
	Convey("Missing payloads produce an empty row rather than a panic", t, func() {
		e := nhl.NormalizeEdgeStats(map[string]interface{}{}, nil, nil)
		So(e, ShouldNotBeNil)
		So(e.Bursts20Plus, ShouldBeNil)
		So(e.DistancePerGameMiles, ShouldBeNil)
	})
}
