package config

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given an empty environment", t, func() {
		for _, k := range []string{"DATABASE_URL", "DATA_DIR", "NHL_TEAM", "NHL_SEASON", "EDGE_WORKERS", "LEAGUE_SAMPLE_SIZE", "REFRESH_INTERVAL_MINUTES", "PORT", "API_PORT", "ENVIRONMENT"} {
			t.Setenv(k, "")
		}

		cfg, err := Load()
		So(err, ShouldBeNil)

		Convey("SQLite under ./data is the default backend", func() {
			So(cfg.UsePostgres(), ShouldBeFalse)
			So(cfg.SQLitePath(), ShouldEqual, filepath.Join("data", SQLiteFile))
		})

		Convey("Ingestion defaults match the Capitals setup", func() {
			So(cfg.Team, ShouldEqual, "WSH")
			So(cfg.Season, ShouldBeEmpty)
			So(cfg.LeagueSampleSize, ShouldEqual, 150)
			So(cfg.NHLRequestsPerMinute, ShouldEqual, 120)
			So(cfg.EdgeWorkers, ShouldEqual, 4)
			So(cfg.RefreshInterval, ShouldEqual, time.Duration(0))
			So(cfg.APIPort, ShouldEqual, 8000)
			So(cfg.IsProduction(), ShouldBeFalse)
		})
	})

	Convey("Given overrides", t, func() {
		t.Setenv("DATABASE_URL", "postgres://localhost/caps")
		t.Setenv("NHL_TEAM", "pit")
		t.Setenv("NHL_SEASON", "20242025")
		t.Setenv("REFRESH_INTERVAL_MINUTES", "90")
		t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
		t.Setenv("PORT", "9000")
		t.Setenv("API_PORT", "")
		t.Setenv("ENVIRONMENT", "production")

		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.UsePostgres(), ShouldBeTrue)
		So(cfg.Team, ShouldEqual, "PIT")
		So(cfg.Season, ShouldEqual, "20242025")
		So(cfg.RefreshInterval, ShouldEqual, 90*time.Minute)
		So(cfg.CORSAllowOrigins, ShouldResemble, []string{"https://a.example", "https://b.example"})
		So(cfg.APIPort, ShouldEqual, 9000)
		So(cfg.IsProduction(), ShouldBeTrue)
	})

	Convey("Invalid values are rejected", t, func() {
		t.Setenv("NHL_SEASON", "2025")
		_, err := Load()
		So(err, ShouldNotBeNil)

		t.Setenv("NHL_SEASON", "")
		t.Setenv("EDGE_WORKERS", "0")
		_, err = Load()
		So(err, ShouldNotBeNil)
	})

	Convey("Unparseable numbers fall back to defaults", t, func() {
		t.Setenv("EDGE_WORKERS", "lots")
		t.Setenv("NHL_SEASON", "")
		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.EdgeWorkers, ShouldEqual, 4)
	})
}
