// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopsense/internal/auth"
	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChiMiddlewareConfigFrom(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFrom(&config.SecurityConfig{
		CORSOrigins:       []string{"https://shop.example"},
		RateLimitReqs:     42,
		RateLimitWindow:   30 * time.Second,
		RateLimitDisabled: true,
	})
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://shop.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 42 || cfg.RateLimitWindow != 30*time.Second || !cfg.RateLimitDisabled {
		t.Errorf("rate limit = %d/%v disabled=%v", cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitDisabled)
	}
	if len(cfg.CORSAllowedMethods) == 0 {
		t.Error("CORSAllowedMethods should keep defaults")
	}
}

func TestChiMiddleware_CORS(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://allowed.com"}
	m := NewChiMiddleware(cfg)
	handler := m.CORS()(okHandler())

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{"allowed origin", "https://allowed.com", "https://allowed.com"},
		{"disallowed origin", "https://evil.com", ""},
		{"no origin", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestChiMiddleware_CORS_PreflightRequest(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"*"}
	handler := NewChiMiddleware(cfg).CORS()(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/parse", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight response missing Access-Control-Allow-Methods")
	}
}

func TestChiMiddleware_RateLimit(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitRequests: 3,
		RateLimitWindow:   time.Minute,
	})
	handler := m.RateLimit()(okHandler())

	var ok, limited int
	var lastBody string
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		switch w.Code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			limited++
			lastBody = w.Body.String()
		}
	}

	if ok != 3 || limited != 2 {
		t.Errorf("ok = %d, limited = %d; want 3 and 2", ok, limited)
	}
	if !strings.Contains(lastBody, ErrCodeTooManyRequests) {
		t.Errorf("limited body %s should use the error envelope", lastBody)
	}

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.2:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second IP status = %d, want 200", w.Code)
	}
}

func TestChiMiddleware_RateLimit_Disabled(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true, RateLimitRequests: 1, RateLimitWindow: time.Minute})
	handler := m.RateLimit()(okHandler())
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS header missing behind TLS proxy")
	}
}

func TestRequireAdminMiddleware(t *testing.T) {
	t.Parallel()

	manager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "this_is_a_very_long_secret_key_for_testing_purposes_12345"})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	admin, _ := manager.GenerateToken("operator-001", auth.RoleAdmin, time.Hour)
	viewer, _ := manager.GenerateToken("analyst-001", "viewer", time.Hour)

	tests := []struct {
		name     string
		header   string
		want     int
		wantCode string
	}{
		{"admin token", "Bearer " + admin, http.StatusOK, ""},
		{"no token", "", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"viewer token", "Bearer " + viewer, http.StatusForbidden, ErrCodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var logBuf bytes.Buffer
			security := logging.NewSecurityLoggerWithLogger(logging.NewTestLogger(&logBuf))

			var gotClaims *auth.Claims
			handler := RequireAdminMiddleware(auth.NewAuthenticator(manager), security)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotClaims = auth.ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/retrain", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if !strings.Contains(logBuf.String(), `"event":"admin_auth"`) {
				t.Errorf("security log missing admin_auth event: %s", logBuf.String())
			}
			if tt.wantCode == "" {
				if gotClaims == nil || gotClaims.Subject != "operator-001" {
					t.Errorf("claims in context = %+v", gotClaims)
				}
				return
			}
			var resp APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRequireAdminMiddleware_NilAuthenticator(t *testing.T) {
	t.Parallel()

	handler := RequireAdminMiddleware(nil, logging.NewSecurityLogger())(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/retrain", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", w.Code)
	}
}
