// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package middleware

import (
	"net/http"

	"github.com/tomtom215/shopsense/internal/logging"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// RequestID echoes a usable upstream X-Request-ID or mints one, and
// stores it in the request context next to a fresh correlation id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if n := len(id); n == 0 || n > maxRequestIDLength {
			id = logging.GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logging.ContextWithNewCorrelationID(
			logging.ContextWithRequestID(r.Context(), id),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
