// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/shopsense/internal/auth"
	"github.com/tomtom215/shopsense/internal/docindex"
	"github.com/tomtom215/shopsense/internal/recommend"
)

// RecommendRequest is the body of POST /recommendations. A zero or absent
// num_recommendations selects the engine default.
type RecommendRequest struct {
	UserID             string `json:"user_id" validate:"required,notblank,max=128"`
	NumRecommendations int    `json:"num_recommendations" validate:"min=0,max=100"`
}

// RecommendResponse lists recommended ids in rank order. Details holds
// the documents for the ids the index knows, in the same order.
type RecommendResponse struct {
	ProductIDs []string           `json:"recommended_product_ids"`
	Details    []docindex.Product `json:"recommended_products_details"`
}

// Recommendations returns collaborative-filtering recommendations for a
// user.
//
// @Summary Recommend products for a user
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "User and count"
// @Success 200 {object} APIResponse{data=RecommendResponse}
// @Failure 404 {object} APIResponse "No recommendation could be made"
// @Failure 503 {object} APIResponse "Model not built"
// @Router /recommendations [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)

	res := h.recommender.Recommend(r.Context(), req.UserID, req.NumRecommendations)
	switch res.Outcome {
	case recommend.OutcomeOK:
	case recommend.OutcomeModelUnbuilt:
		rw.ServiceUnavailable(res.Reason())
		return
	default:
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNoRecommendations, res.Reason(),
			map[string]string{"outcome": res.Outcome.String()})
		return
	}

	details, err := h.index.ByProductIDs(r.Context(), res.Items)
	if err != nil {
		// The ranking is the answer; details are best effort.
		h.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("product details unavailable for recommendations")
		details = nil
	}

	rw.Success(RecommendResponse{
		ProductIDs: res.Items,
		Details:    nonNil(details),
	})
}

// Retrain rebuilds the recommendation model synchronously.
//
// @Summary Retrain the recommendation model
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=recommend.TrainingStatus}
// @Failure 401 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 409 {object} APIResponse "Training already running"
// @Router /admin/retrain [post]
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.trainTimeout)
	defer cancel()

	subject := ""
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		subject = claims.Subject
	}
	h.logger.Info().Str("subject", subject).Msg("retrain requested")

	if err := h.recommender.Train(ctx); err != nil {
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			rw.Conflict("Training already in progress")
			return
		}
		rw.InternalError("Model training failed", err)
		return
	}
	rw.Success(h.recommender.Status())
}

// ModelStatus reports the recommendation model's training state.
//
// @Summary Recommendation model status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=recommend.TrainingStatus}
// @Router /admin/model [get]
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.recommender.Status())
}

// Performance returns per-endpoint latency statistics over the recent
// request window.
//
// @Summary Recent endpoint latency
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]middleware.EndpointStats}
// @Router /admin/performance [get]
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.perf == nil {
		rw.NotFound("Performance monitoring is disabled")
		return
	}
	stats := h.perf.GetStats()
	rw.SuccessWithCount(stats, len(stats))
}
