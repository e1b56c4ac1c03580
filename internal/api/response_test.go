// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/validation"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return response
}

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	r = r.WithContext(logging.ContextWithRequestID(r.Context(), "req-42"))

	NewResponseWriter(w, r).Success(map[string]string{"message": "hello"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	response := decodeEnvelope(t, w)
	if !response.Success || response.Error != nil {
		t.Errorf("response = %+v, want success without error", response)
	}
	if response.Meta == nil || response.Meta.Timestamp.IsZero() || response.Meta.RequestID != "req-42" {
		t.Errorf("Meta = %+v, want timestamp and request id", response.Meta)
	}
	if response.Meta.Count != nil {
		t.Errorf("Meta.Count = %v, want omitted", *response.Meta.Count)
	}
}

func TestResponseWriter_SuccessWithCount(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	NewResponseWriter(w, httptest.NewRequest(http.MethodGet, "/test", nil)).SuccessWithCount([]string{"a", "b"}, 2)

	response := decodeEnvelope(t, w)
	if response.Meta == nil || response.Meta.Count == nil || *response.Meta.Count != 2 {
		t.Errorf("Meta = %+v, want count 2", response.Meta)
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		write      func(*ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"unauthorized", func(rw *ResponseWriter) { rw.Unauthorized("who") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"forbidden", func(rw *ResponseWriter) { rw.Forbidden("no") }, http.StatusForbidden, ErrCodeForbidden},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("gone") }, http.StatusNotFound, ErrCodeNotFound},
		{"conflict", func(rw *ResponseWriter) { rw.Conflict("busy") }, http.StatusConflict, ErrCodeConflict},
		{"too many", func(rw *ResponseWriter) { rw.TooManyRequests("slow") }, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("oops", errors.New("x")) }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("later") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"external", func(rw *ResponseWriter) { rw.ExternalServiceError("index", errors.New("x")) }, http.StatusBadGateway, ErrCodeExternalServiceFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			tt.write(NewResponseWriter(w, httptest.NewRequest(http.MethodGet, "/test", nil)))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			response := decodeEnvelope(t, w)
			if response.Success || response.Error == nil || response.Error.Code != tt.wantCode {
				t.Errorf("response = %+v, want error code %s", response, tt.wantCode)
			}
		})
	}
}

func TestResponseWriter_Unauthorized_SetsChallenge(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	NewResponseWriter(w, httptest.NewRequest(http.MethodGet, "/test", nil)).Unauthorized("token required")
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("WWW-Authenticate header missing")
	}
}

func TestResponseWriter_ValidationError(t *testing.T) {
	t.Parallel()

	verr := validation.ValidateStruct(&ParseRequest{})
	if verr == nil {
		t.Fatal("ValidateStruct(empty ParseRequest) = nil, want error")
	}

	w := httptest.NewRecorder()
	NewResponseWriter(w, httptest.NewRequest(http.MethodPost, "/test", nil)).ValidationError(verr)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	response := decodeEnvelope(t, w)
	if response.Error == nil || response.Error.Code != ErrCodeValidationFailed {
		t.Fatalf("error = %+v", response.Error)
	}
	details, ok := response.Error.Details.(map[string]any)
	if !ok || details["field"] != "query" {
		t.Errorf("details = %v, want field query", response.Error.Details)
	}
}
