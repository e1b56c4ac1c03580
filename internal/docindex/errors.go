// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package docindex

import "errors"

var (
	// ErrUnavailable means the index could not be reached, answered with a
	// server error, or the circuit breaker is open.
	ErrUnavailable = errors.New("document index unavailable")

	// ErrNotFound is returned by ByID when no document matches.
	ErrNotFound = errors.New("product not found")

	// ErrRejected means the index refused the request (4xx). It does not
	// count against the circuit breaker.
	ErrRejected = errors.New("document index rejected request")
)
