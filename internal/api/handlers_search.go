// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shopsense/internal/docindex"
	"github.com/tomtom215/shopsense/internal/query"
)

// Limits for GET /products/latest.
const (
	defaultLatestLimit = 10
	maxLatestLimit     = 100
)

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Query string `json:"query" validate:"required,notblank,max=512"`
}

// ParseResponse pairs the interpreted predicate with the matching products.
type ParseResponse struct {
	ParsedQuery query.Predicate    `json:"parsed_query"`
	Products    []docindex.Product `json:"products"`
	Interpreter string             `json:"interpreter"`
}

// Parse interprets a free-text query and searches the index with it.
//
// @Summary Interpret a search phrase and return matching products
// @Tags Search
// @Accept json
// @Produce json
// @Param request body ParseRequest true "Search phrase"
// @Success 200 {object} APIResponse{data=ParseResponse}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse "Document index unavailable"
// @Router /parse [post]
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)

	encodeCtx, cancel := context.WithTimeout(r.Context(), h.encodeTimeout)
	pred := h.interp.Parse(encodeCtx, strings.TrimSpace(req.Query))
	cancel()

	products, err := h.index.Search(r.Context(), &pred)
	if err != nil {
		writeIndexError(rw, err)
		return
	}

	rw.Success(ParseResponse{
		ParsedQuery: pred,
		Products:    nonNil(products),
		Interpreter: h.interp.Mode(),
	})
}

// ProductByID returns one product by its document id.
//
// @Summary Get a product by id
// @Tags Products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} APIResponse{data=docindex.Product}
// @Failure 404 {object} APIResponse
// @Router /products/{id} [get]
func (h *Handler) ProductByID(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		rw.BadRequest("Product id is required")
		return
	}

	product, err := h.index.ByID(r.Context(), id)
	if err != nil {
		writeIndexError(rw, err)
		return
	}
	rw.Success(product)
}

// Products returns up to 100 products.
//
// @Summary List products
// @Tags Products
// @Produce json
// @Success 200 {object} APIResponse{data=[]docindex.Product}
// @Router /products [get]
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	products, err := h.index.All(r.Context())
	if err != nil {
		writeIndexError(rw, err)
		return
	}
	rw.SuccessWithCount(nonNil(products), len(products))
}

// LatestProducts returns the newest products by timestamp.
//
// @Summary List the newest products
// @Tags Products
// @Produce json
// @Param limit query int false "Number of products (1-100)" default(10)
// @Success 200 {object} APIResponse{data=[]docindex.Product}
// @Failure 400 {object} APIResponse
// @Router /products/latest [get]
func (h *Handler) LatestProducts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	limit, err := parseIntParam(r, "limit", defaultLatestLimit, 1, maxLatestLimit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	products, err := h.index.Latest(r.Context(), limit)
	if err != nil {
		writeIndexError(rw, err)
		return
	}
	rw.SuccessWithCount(nonNil(products), len(products))
}
