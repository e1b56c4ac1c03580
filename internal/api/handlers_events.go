// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/shopsense/internal/eventprocessor"
	"github.com/tomtom215/shopsense/internal/recommend"
)

// RecordEvent accepts one interaction event. With NATS enabled the event
// is published and stored asynchronously; otherwise it is stored before
// the response is written. Either way the response is 202.
//
// @Summary Record a user interaction
// @Tags Events
// @Accept json
// @Produce json
// @Param request body recommend.Event true "Interaction"
// @Success 202 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse "Event store unavailable"
// @Router /events [post]
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var ev recommend.Event
	if !decodeAndValidate(w, r, &ev) {
		return
	}
	rw := NewResponseWriter(w, r)

	if err := h.events.Record(r.Context(), ev); err != nil {
		if errors.Is(err, eventprocessor.ErrInvalidPayload) {
			rw.BadRequest(err.Error())
			return
		}
		rw.ExternalServiceError("event store", err)
		return
	}

	rw.Accepted(map[string]string{
		"userId":          ev.UserID,
		"productId":       ev.ProductID,
		"interactionType": string(ev.Kind),
	})
}
