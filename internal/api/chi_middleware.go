// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/shopsense/internal/auth"
	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/logging"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddlewareConfigFrom builds the middleware configuration from the
// security section.
func ChiMiddlewareConfigFrom(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = sec.CORSOrigins
	cfg.RateLimitRequests = sec.RateLimitReqs
	cfg.RateLimitWindow = sec.RateLimitWindow
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware holds the CORS and rate limit handlers built once from
// a ChiMiddlewareConfig.
type ChiMiddleware struct {
	cors  func(http.Handler) http.Handler
	limit func(http.Handler) http.Handler
}

// NewChiMiddleware builds the middleware set. A nil cfg uses
// DefaultChiMiddlewareConfig.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}
	return &ChiMiddleware{
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         cfg.CORSMaxAge,
		}),
		limit: rateLimiter(cfg),
	}
}

// rateLimiter limits per client IP. Rejections use the standard error
// envelope.
func rateLimiter(cfg *ChiMiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(cfg.RateLimitRequests, cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).TooManyRequests("Rate limit exceeded, retry later")
		}),
	)
}

// CORS returns the go-chi/cors middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler { return m.cors }

// RateLimit returns the go-chi/httprate middleware, or a pass-through
// when rate limiting is disabled.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler { return m.limit }

var apiHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Cache-Control", "no-store"},
}

// APISecurityHeaders sets the headers every JSON response carries, plus
// HSTS when the request arrived over TLS directly or via a proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range apiHeaders {
				h.Set(kv[0], kv[1])
			}
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminMiddleware rejects requests without an admin bearer token.
// Missing or invalid tokens get 401 and valid tokens without the admin
// role get 403. Every decision is written to the security log. A nil
// authenticator disables the check (auth_mode "none").
func RequireAdminMiddleware(authn *auth.Authenticator, security *logging.SecurityLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if authn == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authn.AuthenticateAdmin(r)
			var subject string
			if claims != nil {
				subject = claims.Subject
			}
			if err == nil {
				security.LogAdminAuth(subject, r.RemoteAddr, r.URL.Path, true, "")
				next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
				return
			}

			security.LogAdminAuth(subject, r.RemoteAddr, r.URL.Path, false, err.Error())
			denyAdmin(NewResponseWriter(w, r), err)
		})
	}
}

func denyAdmin(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		rw.Forbidden("Admin role required")
	case errors.Is(err, auth.ErrExpiredCredentials):
		rw.Unauthorized("Token expired")
	default:
		rw.Unauthorized("Valid bearer token required")
	}
}
