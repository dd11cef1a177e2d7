package refresh_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/caps-edge/internal/metrics"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/refresh"
	"github.com/albapepper/caps-edge/internal/scoring"
	"github.com/albapepper/caps-edge/internal/store"
)

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }

type fakeFetcher struct {
	roster    []provider.Player
	rosterErr error
	stats     map[int]provider.SkaterStats
	league    []scoring.RawPlayerSample
	edges     map[int]*provider.EdgeStats
	edgeErrs  map[int]error
	started   chan struct{}
	block     chan struct{}
	edgeCalls atomic.Int32
}

func (f *fakeFetcher) GetRoster(ctx context.Context, team, season string) ([]provider.Player, error) {
	if f.block != nil {
		close(f.started)
		<-f.block
	}
	return f.roster, f.rosterErr
}

func (f *fakeFetcher) GetSkaterStats(ctx context.Context, season string, ids []int) (map[int]provider.SkaterStats, error) {
	return f.stats, nil
}

func (f *fakeFetcher) GetEdgeStats(ctx context.Context, playerID int, season string) (*provider.EdgeStats, error) {
	f.edgeCalls.Add(1)
	if err := f.edgeErrs[playerID]; err != nil {
		return nil, err
	}
	return f.edges[playerID], nil
}

func (f *fakeFetcher) GetLeagueSamples(ctx context.Context, season string) ([]scoring.RawPlayerSample, error) {
	return f.league, nil
}

func edge(bursts int, distance, offZone float64) *provider.EdgeStats {
	return &provider.EdgeStats{
		Bursts20Plus:         intp(bursts),
		DistancePerGameMiles: floatp(distance),
		OffZoneTimePct:       floatp(offZone),
	}
}

func newFixture() *fakeFetcher {
	f := &fakeFetcher{
		roster: []provider.Player{
			{ID: 1, Name: "Center One", Position: "C", JerseyNumber: intp(19)},
			{ID: 2, Name: "Defense Two", Position: "D", JerseyNumber: intp(74)},
			{ID: 3, Name: "Wing Three", Position: "L"},
		},
		stats: map[int]provider.SkaterStats{
			1: {PlayerID: 1, GamesPlayed: 20, AvgTOI: floatp(15), Hits: 25, Shots: 40, Points: 18, ShotsPer60: floatp(8)},
			2: {PlayerID: 2, GamesPlayed: 20, AvgTOI: floatp(22), Hits: 40, Shots: 30, Points: 9, ShotsPer60: floatp(4.09)},
			3: {PlayerID: 3, GamesPlayed: 0},
		},
		edges: map[int]*provider.EdgeStats{
			1:   edge(30, 2.6, 44),
			2:   edge(10, 2.9, 38),
			100: edge(20, 2.5, 50),
			103: edge(30, 2.7, 48),
			104: edge(25, 2.4, 42),
			106: edge(15, 2.2, 40),
		},
		edgeErrs: map[int]error{102: errors.New("upstream 500")},
	}
	for id := 100; id <= 106; id++ {
		f.league = append(f.league, scoring.RawPlayerSample{
			PlayerID: id, Position: scoring.Center, GamesPlayed: 20, AvgTOI: 15,
			Hits: 10 + id%7, Shots: 30 + id%5,
		})
	}
	return f
}

func openStore(t *testing.T) *store.SQLite {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "caps.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunner(t *testing.T) {
	ctx := context.Background()

	Convey("Given a runner over a fake league", t, func() {
		f := newFixture()
		st := openStore(t)
		runner := refresh.NewRunner(f, st, refresh.Options{Season: "20252026", LeagueSampleSize: 4, EdgeWorkers: 3}, nil, metrics.New())

		var hooked []refresh.Result
		runner.OnComplete(func(r refresh.Result) { hooked = append(hooked, r) })

		result := runner.Run(ctx)

		Convey("The cycle completes and counts its work", func() {
			So(result.OK(), ShouldBeTrue)
			So(result.Season, ShouldEqual, "20252026")
			So(result.PlayersUpserted, ShouldEqual, 3)
			So(result.StatsUpserted, ShouldEqual, 3)
			So(result.EdgeRowsUpserted, ShouldEqual, 2)
			So(result.LeagueCandidates, ShouldEqual, 7)
			So(result.LeagueSampled, ShouldEqual, 4)
			So(result.LeagueScored, ShouldEqual, 4)
			So(result.PlayersScored, ShouldEqual, 1)
			So(result.Summary(), ShouldContainSubstring, "league_sampled=4/7")
			So(len(hooked), ShouldEqual, 1)
		})

		Convey("League sampling stops once enough Edge rows are found", func() {
			// 3 roster + 100..106 league candidates
			So(int(f.edgeCalls.Load()), ShouldEqual, 10)
		})

		Convey("Reference tables cover only sampled positions", func() {
			avgs, err := st.PositionAverages(ctx)
			So(err, ShouldBeNil)
			So(len(avgs), ShouldEqual, 1)
			So(avgs[scoring.Center].SampleSize, ShouldEqual, 4)

			scores, err := st.LeagueMotorScores(ctx)
			So(err, ShouldBeNil)
			So(len(scores), ShouldEqual, 4)
		})

		Convey("Roster players carry scores and percentiles", func() {
			center, err := st.GetPlayer(ctx, 1)
			So(err, ShouldBeNil)
			So(center.EdgeStats.MotorIndex.IsPresent(), ShouldBeTrue)
			So(*center.EdgeStats.MotorPercentile, ShouldBeBetweenOrEqual, 0, 100)
			So(center.EdgeStats.HustleScore.IsPresent(), ShouldBeTrue)
			So(center.EdgeStats.ShotsPercentile, ShouldNotBeNil)

			// No defense averages: Motor is withheld, Hustle is still scored.
			defense, err := st.GetPlayer(ctx, 2)
			So(err, ShouldBeNil)
			So(defense.EdgeStats.MotorIndex.IsPresent(), ShouldBeFalse)
			So(defense.EdgeStats.MotorPercentile, ShouldBeNil)
			So(defense.EdgeStats.HustleScore.IsPresent(), ShouldBeTrue)

			wing, err := st.GetPlayer(ctx, 3)
			So(err, ShouldBeNil)
			So(wing.Stats, ShouldNotBeNil)
			So(wing.EdgeStats, ShouldBeNil)
		})

		Convey("The snapshot is timestamped", func() {
			ts, err := st.LastUpdated(ctx)
			So(err, ShouldBeNil)
			So(ts, ShouldNotBeNil)
		})

		Convey("A second run replaces rather than accumulates", func() {
			again := runner.Run(ctx)
			So(again.OK(), ShouldBeTrue)
			scores, err := st.LeagueMotorScores(ctx)
			So(err, ShouldBeNil)
			So(len(scores), ShouldEqual, 4)
			n, err := st.CountPlayers(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})
	})

	Convey("A roster failure aborts the cycle before anything is written", t, func() {
		f := newFixture()
		f.rosterErr = errors.New("roster down")
		st := openStore(t)
		runner := refresh.NewRunner(f, st, refresh.Options{Season: "20252026"}, nil, nil)

		result := runner.Run(ctx)
		So(result.OK(), ShouldBeFalse)
		So(len(result.Errors), ShouldEqual, 1)
		So(result.Errors[0], ShouldContainSubstring, "roster down")

		ts, err := st.LastUpdated(ctx)
		So(err, ShouldBeNil)
		So(ts, ShouldBeNil)
	})

	Convey("TryRun refuses to overlap a running cycle", t, func() {
		f := newFixture()
		f.started = make(chan struct{})
		f.block = make(chan struct{})
		st := openStore(t)
		runner := refresh.NewRunner(f, st, refresh.Options{Season: "20252026"}, nil, nil)

		done := make(chan refresh.Result)
		go func() { done <- runner.Run(ctx) }()

		select {
		case <-f.started:
		case <-time.After(2 * time.Second):
			t.Fatal("first cycle never started")
		}
		_, err := runner.TryRun(ctx)
		So(err, ShouldEqual, refresh.ErrRunning)

		close(f.block)
		first := <-done
		So(first.OK(), ShouldBeTrue)
	})
}
