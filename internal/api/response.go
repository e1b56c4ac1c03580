// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/validation"
)

// APIResponse is the envelope every endpoint writes. Exactly one of Data
// and Error is set.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError is the error half of the envelope. Code is stable and
// machine-readable; Message is for humans.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta is attached to every response. Count is set on list responses.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Count      *int      `json:"count,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
	ErrCodeNoRecommendations   = "NO_RECOMMENDATIONS"
)

// ResponseWriter writes envelopes for one request and measures its
// duration from construction.
type ResponseWriter struct {
	w       http.ResponseWriter
	r       *http.Request
	started time.Time
}

// NewResponseWriter starts the duration clock for r.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, started: time.Now()}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now(),
		DurationMs: time.Since(rw.started).Milliseconds(),
	}
}

func (rw *ResponseWriter) ok(status int, data any, meta *APIMeta) {
	rw.writeJSON(status, APIResponse{Success: true, Data: data, Meta: meta})
}

// Success writes a 200 with data.
func (rw *ResponseWriter) Success(data any) { rw.ok(http.StatusOK, data, rw.meta()) }

// SuccessWithCount writes a 200 list response with count in meta.
func (rw *ResponseWriter) SuccessWithCount(data any, count int) {
	meta := rw.meta()
	meta.Count = &count
	rw.ok(http.StatusOK, data, meta)
}

// Accepted writes a 202 for work handed off for later processing.
func (rw *ResponseWriter) Accepted(data any) { rw.ok(http.StatusAccepted, data, rw.meta()) }

// Error writes an error envelope with status.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error envelope carrying details.
func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details any) {
	meta := rw.meta()
	rw.writeJSON(status, APIResponse{
		Error: &APIError{Code: code, Message: message, Details: details, RequestID: meta.RequestID},
		Meta:  meta,
	})
}

func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthorized also sets a Bearer challenge.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.w.Header().Set("WWW-Authenticate", `Bearer realm="shopsense"`)
	rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func (rw *ResponseWriter) Forbidden(message string) {
	rw.Error(http.StatusForbidden, ErrCodeForbidden, message)
}

func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

func (rw *ResponseWriter) Conflict(message string) {
	rw.Error(http.StatusConflict, ErrCodeConflict, message)
}

func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, message)
}

func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// InternalError logs err and writes a 500. err never reaches the client.
func (rw *ResponseWriter) InternalError(message string, err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("path", rw.r.URL.Path).Msg(message)
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ExternalServiceError logs err and writes a 502 naming the upstream.
func (rw *ResponseWriter) ExternalServiceError(service string, err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("service", service).Msg("external service error")
	rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, "External service unavailable: "+service)
}

// ValidationError writes a 400 listing the failed fields.
func (rw *ResponseWriter) ValidationError(verr *validation.RequestValidationError) {
	e := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, e.Message, e.Details)
}

func (rw *ResponseWriter) writeJSON(status int, body APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(body); err != nil {
		logging.Ctx(rw.r.Context()).Warn().Err(err).Msg("Response encoding failed after headers were sent")
	}
}
