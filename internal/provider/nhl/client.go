// Package nhl provides the HTTP client and handler for the public NHL APIs:
// the stats REST API (league-wide skater reports) and the web API (team
// rosters and per-player NHL Edge tracking data).
//
// The stats API pages with start/limit offsets and caps each page at 100
// rows. Neither API requires auth. Rate limiting is handled via a token
// bucket limiter shared by both hosts.
package nhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"golang.org/x/time/rate"

	"github.com/albapepper/caps-edge/internal/metrics"
)

const (
	StatsBaseURL = "https://api.nhle.com/stats/rest/en"
	WebBaseURL   = "https://api-web.nhle.com/v1"
)

// ErrNotFound is returned for 404 responses. Edge endpoints answer 404 for
// players without tracking data.
var ErrNotFound = errors.New("nhl: not found")

// Client is the shared HTTP client for both NHL hosts.
type Client struct {
	httpClient *http.Client
	statsURL   string
	webURL     string
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewClient creates an NHL HTTP client with rate limiting. rec may be nil.
func NewClient(statsURL, webURL string, requestsPerMinute int, logger *slog.Logger, rec *metrics.Recorder) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		statsURL:   statsURL,
		webURL:     webURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		metrics:    rec,
	}
}

// pagedResponse is the stats API response wrapper.
type pagedResponse struct {
	Data  []map[string]interface{} `json:"data"`
	Total int                      `json:"total"`
}

// getStats performs a rate-limited GET against the stats REST API.
func (c *Client) getStats(ctx context.Context, path string, params url.Values) (*pagedResponse, error) {
	var result pagedResponse
	if err := c.get(ctx, c.statsURL, path, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getWeb performs a rate-limited GET against the web API.
func (c *Client) getWeb(ctx context.Context, path string, out interface{}) error {
	return c.get(ctx, c.webURL, path, nil, out)
}

func (c *Client) get(ctx context.Context, base, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint(path), 0)
		return fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(endpoint(path), resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("NHL %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NHL %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// endpoint strips ids, seasons and team codes from a path so metric labels
// stay bounded: "/edge/skater-detail/8471214/20252026/2" -> "edge/skater-detail".
func endpoint(path string) string {
	var kept []string
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" || unicode.IsDigit(rune(seg[0])) || seg == strings.ToUpper(seg) {
			break
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, "/")
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
