package cache

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given an enabled cache with a controllable clock", t, func() {
		c := New(true)
		defer c.Close()
		now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		etag := c.Set("players", []byte(`[1,2,3]`), time.Minute)

		Convey("Entries are served until they expire", func() {
			data, got, ok := c.Get("players")
			So(ok, ShouldBeTrue)
			So(string(data), ShouldEqual, `[1,2,3]`)
			So(got, ShouldEqual, etag)

			now = now.Add(2 * time.Minute)
			_, _, ok = c.Get("players")
			So(ok, ShouldBeFalse)
			So(c.Stats()["expired_keys"], ShouldEqual, 1)

			c.evict()
			So(c.Stats()["total_keys"], ShouldEqual, 0)
		})

		Convey("Invalidate drops everything", func() {
			c.Set("averages", []byte(`{}`), time.Hour)
			So(c.Invalidate(), ShouldEqual, 2)
			_, _, ok := c.Get("players")
			So(ok, ShouldBeFalse)
			So(c.Stats()["invalidations"], ShouldEqual, int64(1))
		})

		Convey("Hits and misses are counted", func() {
			c.Get("players")
			c.Get("nope")
			So(c.Stats()["hits"], ShouldEqual, int64(1))
			So(c.Stats()["misses"], ShouldEqual, int64(1))
		})
	})

	Convey("A disabled cache stores nothing but still computes ETags", t, func() {
		c := New(false)
		etag := c.Set("k", []byte("v"), time.Hour)
		So(etag, ShouldEqual, ComputeETag([]byte("v")))
		_, _, ok := c.Get("k")
		So(ok, ShouldBeFalse)
	})
}

func TestETag(t *testing.T) {
	Convey("ETags are weak and stable", t, func() {
		a := ComputeETag([]byte("same"))
		So(a, ShouldStartWith, `W/"`)
		So(ComputeETag([]byte("same")), ShouldEqual, a)
		So(ComputeETag([]byte("other")), ShouldNotEqual, a)

		So(CheckETagMatch("", a), ShouldBeFalse)
		So(CheckETagMatch("*", a), ShouldBeTrue)
		So(CheckETagMatch(a, a), ShouldBeTrue)
	})
}
