// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopsense/internal/docindex"
	"github.com/tomtom215/shopsense/internal/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeAndValidate reads a JSON body into dst and validates it. On
// failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			NewResponseWriter(w, r).BadRequest(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		NewResponseWriter(w, r).BadRequest("Invalid JSON request body")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		NewResponseWriter(w, r).ValidationError(verr)
		return false
	}
	return true
}

// parseIntParam returns the query parameter name as an int within
// [lo, hi], or def when absent.
func parseIntParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return v, nil
}

// writeIndexError maps document index errors onto HTTP statuses.
func writeIndexError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, docindex.ErrNotFound):
		rw.NotFound("Product not found")
	case errors.Is(err, docindex.ErrUnavailable), errors.Is(err, docindex.ErrRejected):
		rw.ExternalServiceError("document index", err)
	default:
		rw.InternalError("Document index query failed", err)
	}
}

// nonNil keeps empty product lists encoding as [] rather than null.
func nonNil(products []docindex.Product) []docindex.Product {
	if products == nil {
		return []docindex.Product{}
	}
	return products
}
