// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Vehicle Catalog Metrics
	CatalogVehicles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_vehicles",
			Help: "Number of vehicles in the loaded catalog",
		},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Time taken to load the vehicle catalog from disk",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// MongoDB Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	DBOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_operation_errors_total",
			Help: "Total number of failed MongoDB operations",
		},
		[]string{"operation", "collection"},
	)

	// EPA Sync Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of EPA vehicle sync operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SyncRecordsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_records_processed_total",
			Help: "Total number of vehicles upserted by the EPA sync",
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of sync errors",
		},
		[]string{"stage"}, // "download", "parse", "store"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last successful sync",
		},
	)

	SyncBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_batch_size",
			Help:    "Number of vehicles in each bulk upsert batch",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		},
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
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Payment and Receipt Metrics
	CheckoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Total number of checkout session attempts",
		},
		[]string{"payment_type", "result"},
	)

	ReceiptsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipts_sent_total",
			Help: "Total number of receipt emails attempted",
		},
		[]string{"provider", "result"},
	)

	// Content Metrics
	ContentCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_hits_total",
			Help: "Total number of content cache hits",
		},
	)

	ContentCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_misses_total",
			Help: "Total number of content cache misses",
		},
	)

	ContentUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_updates_total",
			Help: "Total number of content upserts",
		},
	)

	LookupCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_lookup_cache_requests_total",
			Help: "Total number of vehicle lookup cache requests",
		},
		[]string{"kind", "result"}, // result: "hit", "miss"
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"topic", "result"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of domain events handled by subscribers",
		},
		[]string{"handler", "result"},
	)

	// Auth Metrics
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"result"},
	)

	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "action", "decision"}, // decision: "allow", "deny"
	)

	// Audit Metrics
	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit events recorded",
		},
		[]string{"type", "outcome"},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped because the buffer was full",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogLoad records a catalog load and the number of vehicles it holds.
func RecordCatalogLoad(duration time.Duration, vehicles int) {
	CatalogLoadDuration.Observe(duration.Seconds())
	CatalogVehicles.Set(float64(vehicles))
}

// RecordDBOperation records a MongoDB operation metric
func RecordDBOperation(operation, collection string, duration time.Duration, err error) {
	DBOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		DBOperationErrors.WithLabelValues(operation, collection).Inc()
	}
}

// Sync stages used as the "stage" label on SyncErrors.
const (
	SyncStageDownload = "download"
	SyncStageParse    = "parse"
	SyncStageStore    = "store"
)

// RecordSyncOperation records a completed sync run. stage is ignored when err is nil.
func RecordSyncOperation(duration time.Duration, recordsProcessed int, stage string, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncRecordsProcessed.Add(float64(recordsProcessed))
	if err != nil {
		if stage == "" {
			stage = "other"
		}
		SyncErrors.WithLabelValues(stage).Inc()
		return
	}
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordSyncBatch records the size of one bulk upsert batch.
func RecordSyncBatch(size int) {
	SyncBatchSize.Observe(float64(size))
}

// RecordCheckoutSession records a checkout session attempt.
func RecordCheckoutSession(paymentType string, err error) {
	CheckoutSessionsTotal.WithLabelValues(paymentType, resultLabel(err)).Inc()
}

// RecordReceipt records a receipt delivery attempt.
func RecordReceipt(provider string, err error) {
	ReceiptsSentTotal.WithLabelValues(provider, resultLabel(err)).Inc()
}

// RecordContentCache records a content cache lookup.
func RecordContentCache(hit bool) {
	if hit {
		ContentCacheHits.Inc()
	} else {
		ContentCacheMisses.Inc()
	}
}

// RecordLookupCache records a vehicle lookup cache request.
func RecordLookupCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	LookupCacheRequests.WithLabelValues(kind, result).Inc()
}

// RecordEventPublished records a publish attempt on topic.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventHandled records one subscriber invocation.
func RecordEventHandled(handler string, err error) {
	EventsHandled.WithLabelValues(handler, resultLabel(err)).Inc()
}

// RecordAuthAttempt records an admin login attempt.
func RecordAuthAttempt(success bool) {
	AuthAttemptsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordAuthzDecision records a casbin enforcement result.
func RecordAuthzDecision(role, action string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	AuthzDecisionsTotal.WithLabelValues(role, action, decision).Inc()
}

// RecordAuditEvent records an accepted audit event.
func RecordAuditEvent(eventType, outcome string) {
	AuditEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
