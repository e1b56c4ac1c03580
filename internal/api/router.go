// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/shopsense/internal/auth"
	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Authenticator
	security      *logging.SecurityLogger
}

// NewRouter creates a router. A nil authn leaves the admin routes open,
// which config validation only allows outside production.
func NewRouter(handler *Handler, mw *ChiMiddleware, authn *auth.Authenticator, security *logging.SecurityLogger) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	if security == nil {
		security = logging.NewSecurityLogger()
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		authn:         authn,
		security:      security,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	if router.handler.perf != nil {
		r.Use(router.handler.perf.Middleware)
	}
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("No route for " + r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Post("/parse", router.handler.Parse)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", router.handler.Products)
			r.Get("/latest", router.handler.LatestProducts)
			r.Get("/{id}", router.handler.ProductByID)
		})

		r.Post("/recommendations", router.handler.Recommendations)
		r.Post("/events", router.handler.RecordEvent)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdminMiddleware(router.authn, router.security))
			r.Post("/retrain", router.handler.Retrain)
			r.Get("/model", router.handler.ModelStatus)
			r.Get("/performance", router.handler.Performance)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
