// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SQLiteFile is the database file name under DataDir.
const SQLiteFile = "caps_edge.db"

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Database. Postgres when DatabaseURL is set, SQLite under DataDir
	// otherwise.
	DatabaseURL    string
	DataDir        string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// NHL ingestion
	Team                 string
	Season               string // empty: derived from the date at refresh time
	NHLRequestsPerMinute int
	LeagueSampleSize     int
	EdgeWorkers          int
	RefreshInterval      time.Duration // 0 disables the in-process scheduler

	// Cache
	CacheEnabled bool

	// Metrics
	MetricsEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DataDir:        envOr("DATA_DIR", "./data"),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8501",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		Team:                 strings.ToUpper(envOr("NHL_TEAM", "WSH")),
		Season:               envOr("NHL_SEASON", ""),
		NHLRequestsPerMinute: envInt("NHL_REQUESTS_PER_MINUTE", 120),
		LeagueSampleSize:     envInt("LEAGUE_SAMPLE_SIZE", 150),
		EdgeWorkers:          envInt("EDGE_WORKERS", 4),
		RefreshInterval:      time.Duration(envInt("REFRESH_INTERVAL_MINUTES", 0)) * time.Minute,

		CacheEnabled:   envBool("CACHE_ENABLED", true),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Season != "" && !validSeason(c.Season) {
		return fmt.Errorf("NHL_SEASON must look like 20252026, got %q", c.Season)
	}
	if c.LeagueSampleSize < 0 {
		return fmt.Errorf("LEAGUE_SAMPLE_SIZE must not be negative, got %d", c.LeagueSampleSize)
	}
	if c.EdgeWorkers < 1 {
		return fmt.Errorf("EDGE_WORKERS must be at least 1, got %d", c.EdgeWorkers)
	}
	return nil
}

// validSeason accepts two consecutive years, e.g. "20252026".
func validSeason(s string) bool {
	if len(s) != 8 {
		return false
	}
	start, err1 := strconv.Atoi(s[:4])
	end, err2 := strconv.Atoi(s[4:])
	return err1 == nil && err2 == nil && end == start+1
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsePostgres reports whether the Postgres backend is configured.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// SQLitePath is the SQLite database path used when Postgres is not
// configured.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, SQLiteFile)
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
