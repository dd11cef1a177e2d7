// Package metrics provides Prometheus metrics for refresh cycles, the NHL
// client and the HTTP API.
//
// A nil *Recorder is valid and records nothing, so components can take one
// unconditionally.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caps_edge"

// Recorder owns a registry and every metric the service exports.
type Recorder struct {
	registry *prometheus.Registry

	refreshDuration  prometheus.Histogram
	refreshRuns      *prometheus.CounterVec
	playersScored    prometheus.Gauge
	positionSamples  *prometheus.GaugeVec
	upstreamRequests *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Duration of full refresh cycles.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600},
		}),
		refreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		playersScored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "players_scored",
			Help:      "League players with a Motor Index in the last cycle.",
		}),
		positionSamples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "position_sample_size",
			Help:      "Qualified players behind each position average.",
		}, []string{"position"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nhl",
			Name:      "requests_total",
			Help:      "Requests to the NHL APIs by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	r.registry.MustRegister(
		r.refreshDuration, r.refreshRuns, r.playersScored, r.positionSamples,
		r.upstreamRequests, r.httpRequests, r.httpDuration,
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveRefresh records one finished cycle.
func (r *Recorder) ObserveRefresh(d time.Duration, ok bool) {
	if r == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	r.refreshDuration.Observe(d.Seconds())
	r.refreshRuns.WithLabelValues(outcome).Inc()
}

// SetPlayersScored records the size of the Motor population.
func (r *Recorder) SetPlayersScored(n int) {
	if r == nil {
		return
	}
	r.playersScored.Set(float64(n))
}

// SetPositionSample records one position's sample size.
func (r *Recorder) SetPositionSample(position string, n int) {
	if r == nil {
		return
	}
	r.positionSamples.WithLabelValues(position).Set(float64(n))
}

// ObserveUpstream records one NHL API response. status is 0 for transport
// errors.
func (r *Recorder) ObserveUpstream(endpoint string, status int) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// ObserveHTTP records one API response.
func (r *Recorder) ObserveHTTP(route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
