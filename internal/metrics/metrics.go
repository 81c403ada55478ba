// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of failed cache operations",
		},
		[]string{"backend", "operation"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"backend"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache entries removed by expiry or invalidation",
		},
		[]string{"backend"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failure count",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"collection", "operation"},
	)

	// Interaction Metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interactions applied, by action",
		},
		[]string{"action"},
	)

	InteractionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_errors_total",
			Help: "Total number of rejected or failed interactions",
		},
		[]string{"action", "reason"}, // reason: validation, not_found, store
	)

	BehavioralPromotions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signature_behavioral_tag_changes_total",
			Help: "Categories promoted into or demoted from behavioral tags",
		},
		[]string{"direction"}, // promote, demote
	)

	// Recommendation Metrics
	RecommendationBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_build_duration_seconds",
			Help:    "Time to build a recommendation result from the store",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"}, // feed, signature, explore
	)

	RecommendationPoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_pool_size",
			Help:    "Eligible candidates per pool after seen-filtering",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		},
		[]string{"pool"}, // matched, popular, exploratory
	)

	RecommendationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_results_total",
			Help: "Recommendation responses by source",
		},
		[]string{"kind", "source"}, // source: cache, built, fallback
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published",
		},
		[]string{"topic"},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_errors_total",
			Help: "Total number of failed event publishes",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of events handled by consumers",
		},
		[]string{"topic", "action"},
	)

	EventsParseFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_parse_failed_total",
			Help: "Total number of events that could not be decoded",
		},
		[]string{"topic"},
	)

	// Auth Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Authentication attempts by operation and result",
		},
		[]string{"operation", "result"}, // operation: login, refresh, token
	)
)

// RecordAPIRequest records an API request's count and latency.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a hit or miss for backend.
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
		return
	}
	CacheMisses.WithLabelValues(backend).Inc()
}

// RecordCacheError records a failed cache operation.
func RecordCacheError(backend, operation string) {
	CacheErrors.WithLabelValues(backend, operation).Inc()
}

// RecordStoreOperation records the latency and outcome of a store call.
func RecordStoreOperation(collection, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(collection, operation).Inc()
	}
}

// RecordInteraction counts an applied interaction.
func RecordInteraction(action string) {
	InteractionsRecorded.WithLabelValues(action).Inc()
}

// RecordInteractionError counts a rejected or failed interaction.
func RecordInteractionError(action, reason string) {
	InteractionErrors.WithLabelValues(action, reason).Inc()
}

// RecordBehavioralChange counts a tag promotion (true) or demotion (false).
func RecordBehavioralChange(promoted bool) {
	if promoted {
		BehavioralPromotions.WithLabelValues("promote").Inc()
		return
	}
	BehavioralPromotions.WithLabelValues("demote").Inc()
}

// RecordRecommendationBuild observes a build of kind.
func RecordRecommendationBuild(kind string, duration time.Duration) {
	RecommendationBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPoolSize observes the eligible size of a candidate pool.
func RecordPoolSize(pool string, size int) {
	RecommendationPoolSize.WithLabelValues(pool).Observe(float64(size))
}

// RecordRecommendationResult counts a response of kind served from source.
func RecordRecommendationResult(kind, source string) {
	RecommendationResults.WithLabelValues(kind, source).Inc()
}

// RecordEventPublish counts a publish attempt on topic.
func RecordEventPublish(topic string, err error) {
	if err != nil {
		EventPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventConsumed counts a handled event.
func RecordEventConsumed(topic, action string) {
	EventsConsumed.WithLabelValues(topic, action).Inc()
}

// RecordEventParseFailed counts an undecodable event.
func RecordEventParseFailed(topic string) {
	EventsParseFailed.WithLabelValues(topic).Inc()
}

// RecordAuthAttempt counts an authentication attempt.
func RecordAuthAttempt(operation string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	AuthAttempts.WithLabelValues(operation, result).Inc()
}
