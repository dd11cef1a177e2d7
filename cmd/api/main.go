// Command api is the Caps Edge API server.
//
// Usage:
//
//	caps-edge-api
//	API_PORT=8080 REFRESH_INTERVAL_MINUTES=360 caps-edge-api

// @title Caps Edge API
// @version 1.0.0
// @description NHL skater analytics: Motor Index and Hustle Score composites built from NHL Edge tracking and traditional stats, percentile-ranked against a league reference sample.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Caps Edge
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/caps-edge/internal/api"
	"github.com/albapepper/caps-edge/internal/cache"
	"github.com/albapepper/caps-edge/internal/config"
	"github.com/albapepper/caps-edge/internal/listener"
	"github.com/albapepper/caps-edge/internal/maintenance"
	"github.com/albapepper/caps-edge/internal/metrics"
	"github.com/albapepper/caps-edge/internal/provider/nhl"
	"github.com/albapepper/caps-edge/internal/refresh"
	"github.com/albapepper/caps-edge/internal/store"

	_ "github.com/albapepper/caps-edge/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if cfg.IsProduction() {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Open the store (Postgres when DATABASE_URL is set, SQLite otherwise)
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.New()
	}

	// Refresh runner shared by the scheduler and POST /api/v1/refresh
	fetcher := nhl.NewHandler(cfg.NHLRequestsPerMinute, logger, rec)
	runner := refresh.NewRunner(fetcher, st, refresh.Options{
		Team:             cfg.Team,
		Season:           cfg.Season,
		LeagueSampleSize: cfg.LeagueSampleSize,
		EdgeWorkers:      cfg.EdgeWorkers,
	}, logger, rec)
	runner.OnComplete(maintenance.InvalidateCache(appCache, logger))

	// Start the refresh scheduler (disabled when the interval is zero)
	go maintenance.Start(ctx, runner, maintenance.Config{RefreshInterval: cfg.RefreshInterval}, logger)

	// Cycles run by other processes against the shared database announce
	// themselves over LISTEN/NOTIFY
	if cfg.UsePostgres() {
		go listener.Start(ctx, cfg.DatabaseURL, func(listener.RefreshEvent) {
			appCache.Invalidate()
		}, logger)
	}

	// Create router
	router := api.NewRouter(api.Deps{
		Store:   st,
		Cache:   appCache,
		Config:  cfg,
		Runner:  runner,
		Metrics: rec,
		Logger:  logger,
	})

	// Create HTTP server. Refresh requests run a full cycle inline, so the
	// write timeout leaves room for one.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Caps Edge API",
			"addr", addr,
			"environment", cfg.Environment,
			"team", cfg.Team,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
