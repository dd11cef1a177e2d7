// Command ingest is the Caps Edge refresh and scoring CLI.
//
// Usage:
//
//	caps-edge-ingest refresh --team WSH --season 20252026 --sample 150
//	caps-edge-ingest score --input samples.json --players 8471214,8478402
//	caps-edge-ingest averages
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/caps-edge/internal/config"
	"github.com/albapepper/caps-edge/internal/provider/nhl"
	"github.com/albapepper/caps-edge/internal/refresh"
	"github.com/albapepper/caps-edge/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "caps-edge-ingest",
		Short:        "Caps Edge refresh and scoring CLI",
		SilenceUsage: true,
	}
	root.AddCommand(refreshCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(averagesCmd())
	return root
}

// --------------------------------------------------------------------------
// refresh command
// --------------------------------------------------------------------------

func refreshCmd() *cobra.Command {
	var (
		team   string
		season string
		sample int
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one full refresh cycle against the NHL APIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				opts := refresh.Options{
					Team:             cfg.Team,
					Season:           cfg.Season,
					LeagueSampleSize: cfg.LeagueSampleSize,
					EdgeWorkers:      cfg.EdgeWorkers,
				}
				if cmd.Flags().Changed("team") {
					opts.Team = team
				}
				if cmd.Flags().Changed("season") {
					opts.Season = season
				}
				if cmd.Flags().Changed("sample") {
					opts.LeagueSampleSize = sample
				}

				fetcher := nhl.NewHandler(cfg.NHLRequestsPerMinute, logger, nil)
				runner := refresh.NewRunner(fetcher, st, opts, logger, nil)

				start := time.Now()
				result := runner.Run(ctx)
				logger.Info("Refresh finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("refresh error", "error", e)
				}
				if !result.OK() {
					return fmt.Errorf("refresh aborted: %d errors", len(result.Errors))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "WSH", "Team abbreviation")
	cmd.Flags().StringVar(&season, "season", "", "Season id like 20252026; empty = current")
	cmd.Flags().IntVar(&sample, "sample", 150, "League reference sample size")
	return cmd
}

// --------------------------------------------------------------------------
// score command
// --------------------------------------------------------------------------

func scoreCmd() *cobra.Command {
	var (
		input   string
		players []int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON array of player samples offline",
		Long: "Reads a JSON array of raw player samples, runs a full scoring cycle over " +
			"them as the league population and prints each player's scores and percentiles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			samples, err := readSamples(f)
			if err != nil {
				return err
			}
			report := scoreSamples(samples, players)
			if asJSON {
				return writeReportJSON(cmd.OutOrStdout(), report)
			}
			return writeReportTable(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Path to a JSON array of samples")
	cmd.Flags().IntSliceVar(&players, "players", nil, "Only print these player ids (all players still form the population)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// --------------------------------------------------------------------------
// averages command
// --------------------------------------------------------------------------

func averagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "averages",
		Short: "Print the stored position averages and league Motor distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				avgs, err := st.PositionAverages(ctx)
				if err != nil {
					return err
				}
				if len(avgs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No position averages stored; run a refresh first.")
					return nil
				}
				if err := writeAverages(cmd.OutOrStdout(), avgs); err != nil {
					return err
				}

				scores, err := st.LeagueMotorScores(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), motorSummary(scores))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore handles config loading, opening the store, and context
// cancellation.
func withStore(fn func(ctx context.Context, cfg *config.Config, st store.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(ctx, cfg, st)
}
