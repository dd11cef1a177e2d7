package maintenance

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/caps-edge/internal/cache"
	"github.com/albapepper/caps-edge/internal/refresh"
)

type countingRunner struct {
	calls atomic.Int32
	ran   chan struct{}
}

func (r *countingRunner) Run(ctx context.Context) refresh.Result {
	if r.calls.Add(1) == 2 {
		close(r.ran)
	}
	return refresh.Result{Season: "20252026"}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStart(t *testing.T) {
	Convey("Given a short refresh interval", t, func() {
		runner := &countingRunner{ran: make(chan struct{})}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			Start(ctx, runner, Config{RefreshInterval: 5 * time.Millisecond}, quietLogger())
			close(done)
		}()

		Convey("The runner fires on every tick until cancelled", func() {
			select {
			case <-runner.ran:
			case <-time.After(2 * time.Second):
			}
			cancel()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
			}
			So(runner.calls.Load(), ShouldBeGreaterThanOrEqualTo, 2)

			stopped := false
			select {
			case <-done:
				stopped = true
			default:
			}
			So(stopped, ShouldBeTrue)
		})

		Reset(cancel)
	})

	Convey("A zero interval returns immediately", t, func() {
		runner := &countingRunner{ran: make(chan struct{})}
		Start(context.Background(), runner, Config{}, quietLogger())
		So(runner.calls.Load(), ShouldEqual, 0)
	})
}

func TestInvalidateCache(t *testing.T) {
	Convey("Given a populated cache", t, func() {
		c := cache.New(true)
		defer c.Close()
		c.Set("players", []byte(`[]`), time.Hour)
		hook := InvalidateCache(c, quietLogger())

		Convey("An aborted cycle keeps cached responses", func() {
			hook(refresh.Result{Aborted: true})
			_, _, ok := c.Get("players")
			So(ok, ShouldBeTrue)
		})

		Convey("A finished cycle drops them", func() {
			hook(refresh.Result{Season: "20252026"})
			_, _, ok := c.Get("players")
			So(ok, ShouldBeFalse)
			So(c.Stats()["invalidations"], ShouldEqual, int64(1))
		})
	})
}
