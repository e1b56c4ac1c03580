// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shopsense"

func counter(subsystem, name, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
}

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

func gauge(subsystem, name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
}

func gaugeVec(subsystem, name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

func histogram(subsystem, name, help string, buckets []float64) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets})
}

func histogramVec(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets}, labels)
}

var (
	fastBuckets  = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1}
	httpBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	trainBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300}
)

// Query interpretation.
var (
	ParseRequests        = counterVec("query", "parse_requests_total", "Queries parsed, by mode (semantic, passthrough).", "mode")
	ParseFieldHits       = counterVec("query", "parse_field_hits_total", "Parses that populated each predicate field.", "field")
	ParseDuration        = histogram("query", "parse_duration_seconds", "Full query parse latency.", fastBuckets)
	ParseCacheHits       = counter("query", "parse_cache_hits_total", "Parse cache hits.")
	ParseCacheMisses     = counter("query", "parse_cache_misses_total", "Parse cache misses.")
	EmbeddingDuration    = histogram("embedding", "encode_duration_seconds", "Single-text encode latency.", prometheus.DefBuckets)
	EmbeddingFailures    = counter("embedding", "encode_failures_total", "Failed query encodings.")
	EmbeddingIndexTerms  = gauge("embedding", "index_terms", "Category terms in the live embedding index.")
	EmbeddingIndexBuilds = counterVec("embedding", "index_builds_total", "Embedding index publications, by source (snapshot, encoded).", "source")
)

// Recommendations.
var (
	RecommendOutcomes      = counterVec("recommend", "outcomes_total", "Recommendation requests by outcome.", "outcome")
	RecommendTrainDuration = histogram("recommend", "train_duration_seconds", "Neighbor model training time.", trainBuckets)
	RecommendTrainErrors   = counter("recommend", "train_errors_total", "Failed training runs.")
	RecommendModelUsers    = gauge("recommend", "model_users", "Users (rows) in the live interaction matrix.")
	RecommendModelItems    = gauge("recommend", "model_items", "Products (columns) in the live interaction matrix.")
)

// Event store, HTTP, upstreams and ingestion.
var (
	DBQueryDuration = histogramVec("duckdb", "query_duration_seconds", "DuckDB query latency.", prometheus.DefBuckets, "operation", "table")
	DBQueryErrors   = counterVec("duckdb", "query_errors_total", "DuckDB query errors, by error class.", "operation", "table", "error_type")

	APIRequestsTotal   = counterVec("api", "requests_total", "API requests served.", "method", "endpoint", "status_code")
	APIRequestDuration = histogramVec("api", "request_duration_seconds", "API request latency.", httpBuckets, "method", "endpoint")
	APIActiveRequests  = gauge("api", "active_requests", "API requests in flight.")

	CircuitBreakerState               = gaugeVec("circuit_breaker", "state", "Breaker state (0=closed, 1=half-open, 2=open).", "name")
	CircuitBreakerRequests            = counterVec("circuit_breaker", "requests_total", "Requests through a breaker, by result (success, failure, rejected).", "name", "result")
	CircuitBreakerConsecutiveFailures = gaugeVec("circuit_breaker", "consecutive_failures", "Consecutive failures seen by a breaker.", "name")
	CircuitBreakerTransitions         = counterVec("circuit_breaker", "state_transitions_total", "Breaker state changes.", "name", "from_state", "to_state")

	DocIndexRequestDuration = histogramVec("docindex", "request_duration_seconds", "Document index request latency.", httpBuckets, "operation")
	DocIndexRequests        = counterVec("docindex", "requests_total", "Document index requests, by result.", "operation", "result")

	NATSMessagesPublished   = counter("nats", "messages_published_total", "Interaction events published.")
	NATSMessagesConsumed    = counter("nats", "messages_consumed_total", "Interaction events consumed.")
	NATSMessagesParseFailed = counter("nats", "messages_parse_failed_total", "Consumed messages that failed to decode.")
	NATSProcessingDuration  = histogram("nats", "processing_duration_seconds", "Per-message handling time.", prometheus.DefBuckets)

	AppInfo = gaugeVec("", "app_info", "Build information; the value is always 1.", "version", "go_version")
)

// RecordParse records a completed parse and the fields it populated.
func RecordParse(mode string, duration time.Duration, fields []string) {
	ParseRequests.WithLabelValues(mode).Inc()
	ParseDuration.Observe(duration.Seconds())
	for _, f := range fields {
		ParseFieldHits.WithLabelValues(f).Inc()
	}
}

// RecordEmbedding records one query encoding.
func RecordEmbedding(duration time.Duration, err error) {
	EmbeddingDuration.Observe(duration.Seconds())
	if err != nil {
		EmbeddingFailures.Inc()
	}
}

// RecordIndexPublished records a newly published embedding index.
func RecordIndexPublished(source string, terms int) {
	EmbeddingIndexBuilds.WithLabelValues(source).Inc()
	EmbeddingIndexTerms.Set(float64(terms))
}

// RecordParseCache records a parse cache lookup.
func RecordParseCache(hit bool) {
	if hit {
		ParseCacheHits.Inc()
	} else {
		ParseCacheMisses.Inc()
	}
}

// RecordRecommendation records the outcome of one recommendation request.
func RecordRecommendation(outcome string) {
	RecommendOutcomes.WithLabelValues(outcome).Inc()
}

// RecordTraining records a training run and, on success, the model size.
func RecordTraining(duration time.Duration, users, items int, err error) {
	RecommendTrainDuration.Observe(duration.Seconds())
	if err != nil {
		RecommendTrainErrors.Inc()
		return
	}
	RecommendModelUsers.Set(float64(users))
	RecommendModelItems.Set(float64(items))
}

// RecordDBQuery records one query and, on failure, its error class.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, ErrorClass(err)).Inc()
	}
}

// ErrorClass maps err onto a small fixed label set.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, sql.ErrNoRows):
		return "no_rows"
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, sql.ErrTxDone):
		return "connection"
	default:
		return "other"
	}
}

// RecordDocIndex records one document index request.
func RecordDocIndex(operation string, duration time.Duration, err error) {
	DocIndexRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	DocIndexRequests.WithLabelValues(operation, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordNATSPublish increments the published messages counter.
func RecordNATSPublish() {
	NATSMessagesPublished.Inc()
}

// RecordNATSConsume records one consumed message and its handling time.
func RecordNATSConsume(duration time.Duration, parseErr error) {
	NATSMessagesConsumed.Inc()
	NATSProcessingDuration.Observe(duration.Seconds())
	if parseErr != nil {
		NATSMessagesParseFailed.Inc()
	}
}
