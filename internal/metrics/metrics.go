// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "khaboki_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 240},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "khaboki_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Result cache

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_cache_hits_total",
			Help: "Searches answered from the result cache",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_cache_misses_total",
			Help: "Cache lookups that required a fresh scrape",
		},
		[]string{"cache_type", "reason"}, // reason: empty, expired, location, query
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_cache_evictions_total",
			Help: "Cache entries removed on TTL expiry",
		},
		[]string{"cache_type"},
	)

	CacheStorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_cache_storage_errors_total",
			Help: "Swallowed cache storage failures",
		},
		[]string{"cache_type", "operation"},
	)

	// Scrape backend

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "khaboki_backend_request_duration_seconds",
			Help:    "Scrape backend request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 180, 240},
		},
		[]string{"operation"},
	)

	ScrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_backend_errors_total",
			Help: "Scrape backend request failures",
		},
		[]string{"operation", "error_type"},
	)

	ScrapeRestaurants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "khaboki_current_restaurants",
			Help: "Restaurants in the current result set by platform",
		},
		[]string{"platform"},
	)

	// Surprise picker

	SurpriseSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_surprise_selections_total",
			Help: "Surprise picks by selector that produced them",
		},
		[]string{"source"}, // ai, random
	)

	SurpriseFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_surprise_fallbacks_total",
			Help: "AI selections replaced by a random pick",
		},
		[]string{"reason"}, // error, empty, unknown_pick
	)

	// WebSocket

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "khaboki_websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "khaboki_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit breakers

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "khaboki_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "khaboki_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Storage maintenance

	StorageGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khaboki_storage_gc_runs_total",
			Help: "Badger value log GC passes",
		},
		[]string{"result"}, // rewritten, noop, error
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBackendCall records one scrape backend request. errorType is
// ignored when err is nil.
func RecordBackendCall(operation string, duration time.Duration, err error, errorType string) {
	ScrapeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		if errorType == "" {
			errorType = "other"
		}
		ScrapeErrors.WithLabelValues(operation, errorType).Inc()
	}
}

// SetCurrentRestaurants publishes per-platform counts of the active result set.
func SetCurrentRestaurants(counts map[string]int) {
	ScrapeRestaurants.Reset()
	for platform, n := range counts {
		ScrapeRestaurants.WithLabelValues(platform).Set(float64(n))
	}
}
