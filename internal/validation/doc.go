// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance caches struct metadata and is shared by the
// HTTP handlers and the event ingest path. Error field names come from
// json tags, so messages match the request body the client sent.
//
// # Quick Start
//
//	type ParseRequest struct {
//	    Query string `json:"query" validate:"required,notblank,max=512"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Tags
//
//   - notblank: the string contains at least one non-space character
package validation
