// Package metrics exposes Prometheus collectors for the law cache service.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	refreshTotal               *prometheus.CounterVec
	refreshCycleDuration       prometheus.Histogram
	refreshCyclesSkipped       prometheus.Counter
	fetchRetriesTotal          *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		refreshTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leiscache_refresh_total",
				Help: "Total law refresh attempts, labeled by law type and outcome.",
			},
			[]string{"law", "outcome"},
		)

		refreshCycleDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leiscache_refresh_cycle_duration_seconds",
				Help:    "Histogram of full refresh cycle durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
			},
		)

		refreshCyclesSkipped = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "leiscache_refresh_cycles_skipped_total",
				Help: "Refresh triggers skipped because a cycle was already running.",
			},
		)

		fetchRetriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leiscache_fetch_retries_total",
				Help: "Total fetch retries, labeled by upstream host.",
			},
			[]string{"host"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeHost extracts a lowercase hostname from a URL for labeling.
// It returns "unknown" if the URL is invalid.
func SanitizeHost(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRefresh records one refresh attempt outcome for a law type.
func ObserveRefresh(lawType, outcome string) {
	refreshTotal.WithLabelValues(lawType, outcome).Inc()
}

// ObserveRefreshCycle records the duration of one full refresh cycle.
func ObserveRefreshCycle(duration time.Duration) {
	refreshCycleDuration.Observe(duration.Seconds())
}

// ObserveRefreshSkipped counts a trigger that found a cycle in progress.
func ObserveRefreshSkipped() {
	refreshCyclesSkipped.Inc()
}

// ObserveFetchRetry counts a fetch retry against the upstream host.
func ObserveFetchRetry(rawURL string) {
	fetchRetriesTotal.WithLabelValues(SanitizeHost(rawURL)).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
