// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/shopsense/internal/query"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 2 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`

	Interpreter string `json:"interpreter"`

	IndexReachable bool   `json:"index_reachable"`
	IndexBreaker   string `json:"index_breaker"`

	StoreReachable *bool `json:"store_reachable,omitempty"`

	ModelBuilt     bool       `json:"model_built"`
	ModelVersion   int        `json:"model_version"`
	ModelTrainedAt *time.Time `json:"model_trained_at,omitempty"`
	ModelUsers     int        `json:"model_users"`
	ModelItems     int        `json:"model_items"`
}

func (h *Handler) probe(ctx context.Context, p Pinger) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return p.Ping(ctx) == nil
}

// Health reports liveness with model and index status. It always answers
// 200; Status is "degraded" when the index or store is unreachable or the
// interpreter fell back to pass-through.
//
// @Summary System health
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	model := h.recommender.Status()
	status := HealthStatus{
		Status:         "healthy",
		Version:        h.version,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
		Interpreter:    h.interp.Mode(),
		IndexReachable: h.probe(r.Context(), h.index),
		IndexBreaker:   h.index.BreakerState(),
		ModelBuilt:     model.ModelBuilt,
		ModelVersion:   model.ModelVersion,
		ModelUsers:     model.UserCount,
		ModelItems:     model.ItemCount,
	}
	if !model.LastTrainedAt.IsZero() {
		trained := model.LastTrainedAt
		status.ModelTrainedAt = &trained
	}
	if h.store != nil {
		ok := h.probe(r.Context(), h.store)
		status.StoreReachable = &ok
		if !ok {
			status.Status = "degraded"
		}
	}
	if !status.IndexReachable || status.Interpreter != query.ModeSemantic {
		status.Status = "degraded"
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive answers 200 while the process is serving.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 only when the index and store are reachable.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.probe(r.Context(), h.index) {
		rw.ServiceUnavailable("Document index unreachable")
		return
	}
	if h.store != nil && !h.probe(r.Context(), h.store) {
		rw.ServiceUnavailable("Event store unreachable")
		return
	}
	rw.Success(map[string]bool{"ready": true})
}
