package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/albapepper/caps-edge/internal/scoring"
)

// scoreReport is the score command's output.
type scoreReport struct {
	Averages scoring.PositionAverages `json:"position_averages"`
	Maxima   scoring.LeagueMaxima     `json:"league_maxima"`
	Players  []scoredPlayer           `json:"players"`
}

type scoredPlayer struct {
	Position scoring.Position `json:"position"`
	scoring.Ranked
}

func readSamples(r io.Reader) ([]scoring.RawPlayerSample, error) {
	var samples []scoring.RawPlayerSample
	if err := json.NewDecoder(r).Decode(&samples); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return samples, nil
}

// scoreSamples scores every sample as one league population. only, when
// non-empty, filters the printed players but not the population.
func scoreSamples(samples []scoring.RawPlayerSample, only []int) scoreReport {
	cycle := scoring.ScoreLeague(samples)

	keep := make(map[int]bool, len(only))
	for _, id := range only {
		keep[id] = true
	}

	report := scoreReport{Averages: cycle.Averages, Maxima: cycle.Maxima}
	for i, ps := range cycle.Players {
		if len(keep) > 0 && !keep[ps.PlayerID] {
			continue
		}
		report.Players = append(report.Players, scoredPlayer{
			Position: samples[i].Position,
			Ranked:   cycle.Rank(ps),
		})
	}
	return report
}

func writeReportJSON(w io.Writer, report scoreReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReportTable(w io.Writer, report scoreReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tPOS\tMOTOR\tMOTOR%\tHUSTLE\tHUSTLE%\tSHOTS/60\tSHOTS%")
	for _, p := range report.Players {
		shots := "-"
		if p.HasShotsRate {
			shots = strconv.FormatFloat(p.ShotsPer60, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.PlayerID, p.Position,
			p.Motor, pct(p.MotorPercentile),
			p.Hustle, pct(p.HustlePercentile),
			shots, pct(p.ShotsPercentile))
	}
	return tw.Flush()
}

func writeAverages(w io.Writer, avgs scoring.PositionAverages) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tBURSTS/60\tDIST/GP\tHITS/60\tSHOTS/60\tOZ%\tN")
	for _, pos := range scoring.Positions {
		a, ok := avgs[pos]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.1f\t%d\n",
			pos, a.AvgBurstsPer60, a.AvgDistancePerGame, a.AvgHitsPer60,
			a.AvgShotsPer60, a.AvgOffZonePct, a.SampleSize)
	}
	return tw.Flush()
}

// motorSummary describes the stored league Motor population. scores is
// sorted ascending.
func motorSummary(scores []float64) string {
	if len(scores) == 0 {
		return "League Motor population: none scored"
	}
	return fmt.Sprintf("League Motor population: %d scored, min %.1f, median %.1f, max %.1f",
		len(scores), scores[0], scores[len(scores)/2], scores[len(scores)-1])
}

func pct(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
