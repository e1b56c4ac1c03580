// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shopsense/internal/metrics"
)

// unmatchedRoute labels requests no route matched so that probes for
// random paths share one series.
const unmatchedRoute = "unmatched"

// PrometheusMetrics records request count, latency and in-flight gauge per
// chi route pattern ("/api/v1/products/{id}"), never the raw path.
func PrometheusMetrics(next http.Handler) http.Handler {
	timed := observe(next, func(r *http.Request, status int, _ time.Time, elapsed time.Duration) {
		metrics.RecordAPIRequest(r.Method, RoutePattern(r), strconv.Itoa(status), elapsed)
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)
		timed.ServeHTTP(w, r)
	})
}

// RoutePattern returns the chi pattern that served r, or "unmatched".
// Call it after the router has run.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// observe runs next and reports the status it wrote and how long it took.
func observe(next http.Handler, done func(r *http.Request, status int, start time.Time, elapsed time.Duration)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)
		done(r, rec.statusCode, start, time.Since(start))
	})
}

// statusRecorder remembers the first status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode, rw.wroteHeader = code, true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
