// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package middleware

import (
	"cmp"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultWindow = 1000

// RequestMetrics is one observed request.
type RequestMetrics struct {
	Route      string
	Method     string
	DurationMS int64
	StatusCode int
	Timestamp  time.Time
}

// EndpointStats aggregates the window for one "METHOD route" pair.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MinDuration  int64   `json:"min_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps the most recent requests in a ring and logs
// those slower than a threshold. The admin API reads it; Prometheus keeps
// the long-term series.
type PerformanceMonitor struct {
	mu     sync.RWMutex
	ring   []RequestMetrics
	next   int // slot the next request goes into
	filled int
	slow   time.Duration
	logger zerolog.Logger
}

// NewPerformanceMonitor keeps the last window requests and warns about
// requests slower than slow. A zero slow disables the warning.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewPerformanceMonitor(window int, slow time.Duration, logger zerolog.Logger) *PerformanceMonitor {
	if window < 1 {
		window = defaultWindow
	}
	return &PerformanceMonitor{
		ring:   make([]RequestMetrics, window),
		slow:   slow,
		logger: logger.With().Str("component", "performance").Logger(),
	}
}

// RecordRequest adds m, evicting the oldest entry once the ring is full.
func (pm *PerformanceMonitor) RecordRequest(m *RequestMetrics) {
	pm.mu.Lock()
	pm.ring[pm.next] = *m
	pm.next = (pm.next + 1) % len(pm.ring)
	pm.filled = min(pm.filled+1, len(pm.ring))
	pm.mu.Unlock()
}

// GetRecentMetrics returns up to n entries, oldest first.
func (pm *PerformanceMonitor) GetRecentMetrics(n int) []RequestMetrics {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	n = max(0, min(n, pm.filled))
	out := make([]RequestMetrics, n)
	size := len(pm.ring)
	start := pm.next - n + size
	for i := range out {
		out[i] = pm.ring[(start+i)%size]
	}
	return out
}

// GetStats summarizes the window per endpoint, busiest first.
func (pm *PerformanceMonitor) GetStats() []EndpointStats {
	type bucket struct {
		durations []int64
		errors    int64
	}
	buckets := make(map[string]*bucket)
	for _, m := range pm.GetRecentMetrics(len(pm.ring)) {
		key := m.Method + " " + m.Route
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.durations = append(b.durations, m.DurationMS)
		if m.StatusCode >= http.StatusInternalServerError {
			b.errors++
		}
	}

	stats := make([]EndpointStats, 0, len(buckets))
	for endpoint, b := range buckets {
		ds := b.durations
		slices.Sort(ds)
		var sum int64
		for _, d := range ds {
			sum += d
		}
		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(ds)),
			ErrorCount:   b.errors,
			AvgDuration:  float64(sum) / float64(len(ds)),
			P50Duration:  percentile(ds, 0.50),
			P95Duration:  percentile(ds, 0.95),
			P99Duration:  percentile(ds, 0.99),
			MinDuration:  ds[0],
			MaxDuration:  ds[len(ds)-1],
		})
	}

	slices.SortFunc(stats, func(a, b EndpointStats) int {
		return cmp.Or(
			cmp.Compare(b.RequestCount, a.RequestCount),
			cmp.Compare(a.Endpoint, b.Endpoint),
		)
	})
	return stats
}

// Middleware records every request and logs slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return observe(next, func(r *http.Request, status int, start time.Time, elapsed time.Duration) {
		route := RoutePattern(r)
		pm.RecordRequest(&RequestMetrics{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: status,
			Timestamp:  start,
		})
		if pm.slow <= 0 || elapsed <= pm.slow {
			return
		}
		pm.logger.Warn().
			Str("method", r.Method).
			Str("route", route).
			Int64("duration_ms", elapsed.Milliseconds()).
			Int64("threshold_ms", pm.slow.Milliseconds()).
			Msg("slow request detected")
	})
}

// percentile picks the nearest-rank value below p from sorted.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
