package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

const samplesJSON = `[
  {"player_id": 1, "position": "C", "games_played": 10, "avg_toi": 15, "bursts_20_plus": 30, "hits": 15, "shots": 25, "distance_per_game_miles": 2.0, "off_zone_time_pct": 40},
  {"player_id": 2, "position": "C", "games_played": 20, "avg_toi": 12, "bursts_20_plus": 40, "hits": 8, "shots": 20, "distance_per_game_miles": 2.4, "off_zone_time_pct": 44},
  {"player_id": 3, "position": "C", "games_played": 4, "avg_toi": 10, "bursts_20_plus": 2, "hits": 1, "shots": 3, "distance_per_game_miles": 1.8, "off_zone_time_pct": 38}
]`

func TestScoreSamples(t *testing.T) {
	convey.Convey("Given a small league sample", t, func() {
		samples, err := readSamples(strings.NewReader(samplesJSON))
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(samples), convey.ShouldEqual, 3)

		convey.Convey("Every player is reported by default", func() {
			report := scoreSamples(samples, nil)
			convey.So(len(report.Players), convey.ShouldEqual, 3)
			convey.So(report.Averages["C"].SampleSize, convey.ShouldEqual, 2)

			short := report.Players[2]
			convey.So(short.Motor.IsPresent(), convey.ShouldBeFalse)
			convey.So(short.MotorPercentile, convey.ShouldBeNil)
			convey.So(short.Hustle.IsPresent(), convey.ShouldBeTrue)
		})

		convey.Convey("Filtering keeps the full population", func() {
			all := scoreSamples(samples, nil)
			one := scoreSamples(samples, []int{2})
			convey.So(len(one.Players), convey.ShouldEqual, 1)
			convey.So(one.Players[0].PlayerID, convey.ShouldEqual, 2)
			convey.So(*one.Players[0].MotorPercentile, convey.ShouldEqual, *all.Players[1].MotorPercentile)
		})

		convey.Convey("The table marks withheld values", func() {
			var buf bytes.Buffer
			convey.So(writeReportTable(&buf, scoreSamples(samples, []int{3})), convey.ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			convey.So(len(lines), convey.ShouldEqual, 2)
			convey.So(lines[0], convey.ShouldStartWith, "PLAYER")
			convey.So(lines[1], convey.ShouldContainSubstring, "insufficient data")
		})
	})

	convey.Convey("Malformed input is rejected", t, func() {
		_, err := readSamples(strings.NewReader(`{"player_id": 1}`))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestScoreCommand(t *testing.T) {
	convey.Convey("Given a samples file", t, func() {
		path := filepath.Join(t.TempDir(), "samples.json")
		convey.So(os.WriteFile(path, []byte(samplesJSON), 0o644), convey.ShouldBeNil)

		convey.Convey("The score command prints JSON", func() {
			var out bytes.Buffer
			root := rootCmd()
			root.SetOut(&out)
			root.SetArgs([]string{"score", "--input", path, "--players", "1,2", "--json"})
			convey.So(root.Execute(), convey.ShouldBeNil)

			var report map[string]interface{}
			convey.So(json.Unmarshal(out.Bytes(), &report), convey.ShouldBeNil)
			convey.So(len(report["players"].([]interface{})), convey.ShouldEqual, 2)
			convey.So(report, convey.ShouldContainKey, "position_averages")
			convey.So(report, convey.ShouldContainKey, "league_maxima")
		})

		convey.Convey("The input flag is required", func() {
			root := rootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"score"})
			convey.So(root.Execute(), convey.ShouldNotBeNil)
		})
	})
}

func TestMotorSummary(t *testing.T) {
	convey.Convey("The stored Motor population is summarized", t, func() {
		convey.So(motorSummary(nil), convey.ShouldEqual, "League Motor population: none scored")
		convey.So(motorSummary([]float64{31.2, 50, 58.4, 77.9}), convey.ShouldEqual,
			"League Motor population: 4 scored, min 31.2, median 58.4, max 77.9")
	})
}
