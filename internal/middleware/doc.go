// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package middleware provides the HTTP middleware shared by every route.

Key Components:

  - RequestID: reuses or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count and latency labelled by chi route pattern
  - PerformanceMonitor: sliding window of recent requests with slow-request
    warnings and per-endpoint percentiles

All middleware uses the func(http.Handler) http.Handler shape so it plugs
straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

Route labels come from chi's RouteContext after the handler runs, so
"/api/v1/products/42" and "/api/v1/products/43" share the series
"/api/v1/products/{id}".
*/
package middleware
