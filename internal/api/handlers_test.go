// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopsense/internal/docindex"
	"github.com/tomtom215/shopsense/internal/eventprocessor"
	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/query"
	"github.com/tomtom215/shopsense/internal/recommend"
)

// fakeIndex is an in-memory ProductIndex.
type fakeIndex struct {
	mu       sync.Mutex
	products map[string]docindex.Product
	err      error
	lastPred *query.Predicate
	lastIDs  []string
	limit    int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{products: map[string]docindex.Product{
		"1": {"id": "1", "ProductID": "P1", "productDisplayName": "Nike Red Running Shoe"},
		"2": {"id": "2", "ProductID": "P2", "productDisplayName": "Puma Blue Tee"},
	}}
}

func (f *fakeIndex) Search(_ context.Context, p *query.Predicate) ([]docindex.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPred = p
	if f.err != nil {
		return nil, f.err
	}
	return []docindex.Product{f.products["1"]}, nil
}

func (f *fakeIndex) ByID(_ context.Context, id string) (docindex.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, docindex.ErrNotFound
	}
	return p, nil
}

func (f *fakeIndex) All(context.Context) ([]docindex.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []docindex.Product{f.products["1"], f.products["2"]}, nil
}

func (f *fakeIndex) Latest(_ context.Context, limit int) ([]docindex.Product, error) {
	f.mu.Lock()
	f.limit = limit
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []docindex.Product{f.products["2"]}, nil
}

func (f *fakeIndex) ByProductIDs(_ context.Context, ids []string) ([]docindex.Product, error) {
	f.mu.Lock()
	f.lastIDs = ids
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []docindex.Product
	for _, id := range ids {
		for _, p := range f.products {
			if pid, _ := p.ProductID(); pid == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeIndex) Ping(context.Context) error { return f.err }
func (f *fakeIndex) BreakerState() string       { return "closed" }

// fakeRecommender returns a canned result.
type fakeRecommender struct {
	result   recommend.Result
	trainErr error
	trained  int
	lastN    int
}

func (f *fakeRecommender) Recommend(_ context.Context, userID string, n int) recommend.Result {
	f.lastN = n
	res := f.result
	res.UserID = userID
	return res
}

func (f *fakeRecommender) Train(context.Context) error {
	if f.trainErr != nil {
		return f.trainErr
	}
	f.trained++
	return nil
}

func (f *fakeRecommender) Status() recommend.TrainingStatus {
	return recommend.TrainingStatus{ModelBuilt: f.trained > 0, ModelVersion: f.trained}
}

// fakeRecorder collects recorded events.
type fakeRecorder struct {
	mu     sync.Mutex
	events []recommend.Event
	err    error
}

func (f *fakeRecorder) Record(_ context.Context, ev recommend.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type testEnv struct {
	index   *fakeIndex
	rec     *fakeRecommender
	events  *fakeRecorder
	handler *Handler
	mux     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		index:  newFakeIndex(),
		rec:    &fakeRecommender{result: recommend.Result{Items: []string{"P2", "P1"}}},
		events: &fakeRecorder{},
	}
	h, err := NewHandler(Deps{
		Interpreter: query.PassThrough{},
		Index:       env.index,
		Recommender: env.rec,
		Events:      env.events,
		Version:     "test",
	}, logging.NewTestLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	env.handler = h
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	env.mux = NewRouter(h, NewChiMiddleware(cfg), nil, logging.NewSecurityLoggerWithLogger(logging.NewTestLogger(&bytes.Buffer{}))).SetupChi()
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: response is not JSON: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, resp
}

// dataAs re-decodes resp.Data into dst.
func dataAs(t *testing.T, resp APIResponse, dst any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestNewHandler_RequiresDeps(t *testing.T) {
	t.Parallel()

	full := Deps{
		Interpreter: query.PassThrough{},
		Index:       newFakeIndex(),
		Recommender: &fakeRecommender{},
		Events:      &fakeRecorder{},
	}
	tests := []struct {
		name   string
		mutate func(*Deps)
	}{
		{"no interpreter", func(d *Deps) { d.Interpreter = nil }},
		{"no index", func(d *Deps) { d.Index = nil }},
		{"no recommender", func(d *Deps) { d.Recommender = nil }},
		{"no events", func(d *Deps) { d.Events = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps := full
			tt.mutate(&deps)
			if _, err := NewHandler(deps, logging.NewTestLogger(&bytes.Buffer{})); err == nil {
				t.Error("NewHandler() expected error")
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec, resp := env.do(t, http.MethodPost, "/api/v1/parse", `{"query":"  Red Nike shoes  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var got ParseResponse
	dataAs(t, resp, &got)
	if got.ParsedQuery.OriginalQuery != "Red Nike shoes" {
		t.Errorf("original_query = %q, want trimmed query", got.ParsedQuery.OriginalQuery)
	}
	if len(got.Products) != 1 {
		t.Errorf("products = %d, want 1", len(got.Products))
	}
	if got.Interpreter != query.ModePassThrough {
		t.Errorf("interpreter = %q, want %q", got.Interpreter, query.ModePassThrough)
	}
	if env.index.lastPred == nil || env.index.lastPred.OriginalQuery != "Red Nike shoes" {
		t.Errorf("index searched with %+v", env.index.lastPred)
	}
}

func TestParse_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing query", `{}`, ErrCodeValidationFailed},
		{"blank query", `{"query":"   "}`, ErrCodeValidationFailed},
		{"too long", fmt.Sprintf(`{"query":%q}`, strings.Repeat("a", 513)), ErrCodeValidationFailed},
		{"not json", `query=shoes`, ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec, resp := env.do(t, http.MethodPost, "/api/v1/parse", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestIndexErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		method string
		path   string
		body   string
		want   int
	}{
		{"parse unavailable", fmt.Errorf("wrap: %w", docindex.ErrUnavailable), http.MethodPost, "/api/v1/parse", `{"query":"shoes"}`, http.StatusBadGateway},
		{"parse rejected", docindex.ErrRejected, http.MethodPost, "/api/v1/parse", `{"query":"shoes"}`, http.StatusBadGateway},
		{"all unavailable", docindex.ErrUnavailable, http.MethodGet, "/api/v1/products", "", http.StatusBadGateway},
		{"latest unexpected", errors.New("boom"), http.MethodGet, "/api/v1/products/latest", "", http.StatusInternalServerError},
		{"by id unavailable", docindex.ErrUnavailable, http.MethodGet, "/api/v1/products/1", "", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.index.err = tt.err
			rec, resp := env.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if resp.Success {
				t.Error("Success = true on error")
			}
		})
	}
}

func TestProductByID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec, resp := env.do(t, http.MethodGet, "/api/v1/products/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var p docindex.Product
	dataAs(t, resp, &p)
	if id, _ := p.ProductID(); id != "P1" {
		t.Errorf("ProductID = %q, want P1", id)
	}

	rec, resp = env.do(t, http.MethodGet, "/api/v1/products/404", "")
	if rec.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("missing product: status %d error %+v", rec.Code, resp.Error)
	}
}

func TestProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec, resp := env.do(t, http.MethodGet, "/api/v1/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Meta == nil || resp.Meta.Count == nil || *resp.Meta.Count != 2 {
		t.Errorf("meta = %+v, want count 2", resp.Meta)
	}
}

func TestLatestProducts_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query     string
		wantCode  int
		wantLimit int
	}{
		{"", http.StatusOK, 10},
		{"?limit=25", http.StatusOK, 25},
		{"?limit=100", http.StatusOK, 100},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=101", http.StatusBadRequest, 0},
		{"?limit=ten", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec, _ := env.do(t, http.MethodGet, "/api/v1/products/latest"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && env.index.limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", env.index.limit, tt.wantLimit)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"user_id":"U","num_recommendations":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var got RecommendResponse
	dataAs(t, resp, &got)
	if strings.Join(got.ProductIDs, ",") != "P2,P1" {
		t.Errorf("ids = %v, want [P2 P1]", got.ProductIDs)
	}
	if len(got.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(got.Details))
	}
	if id, _ := got.Details[0].ProductID(); id != "P2" {
		t.Errorf("details[0] = %q, want P2 (rank order)", id)
	}
	if env.rec.lastN != 2 {
		t.Errorf("n = %d, want 2", env.rec.lastN)
	}
}

func TestRecommendations_DefaultCount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if rec, _ := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"user_id":"U"}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.rec.lastN != 0 {
		t.Errorf("n = %d, want 0 so the engine applies its default", env.rec.lastN)
	}
}

func TestRecommendations_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome  recommend.Outcome
		wantCode int
	}{
		{recommend.OutcomeModelUnbuilt, http.StatusServiceUnavailable},
		{recommend.OutcomeUserNotFound, http.StatusNotFound},
		{recommend.OutcomeNoSimilarUsers, http.StatusNotFound},
		{recommend.OutcomeNoNewItems, http.StatusNotFound},
		{recommend.OutcomeNoPositiveScores, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.rec.result = recommend.Result{Outcome: tt.outcome}
			rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"user_id":"ghost"}`)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			want := recommend.Result{UserID: "ghost", Outcome: tt.outcome}.Reason()
			if resp.Error == nil || resp.Error.Message != want {
				t.Errorf("error = %+v, want message %q", resp.Error, want)
			}
		})
	}
}

func TestRecommendations_DetailsBestEffort(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.index.err = docindex.ErrUnavailable
	rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"user_id":"U"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got RecommendResponse
	dataAs(t, resp, &got)
	if len(got.ProductIDs) != 2 || len(got.Details) != 0 {
		t.Errorf("got %+v, want ids without details", got)
	}
}

func TestRecommendations_Validation(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"user_id":" "}`, `{"user_id":"U","num_recommendations":-1}`, `{"user_id":"U","num_recommendations":101}`} {
		env := newTestEnv(t)
		if rec, _ := env.do(t, http.MethodPost, "/api/v1/recommendations", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestRecordEvent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodPost, "/api/v1/events",
		`{"userId":"U","productId":"P1","interactionType":"purchase","timestamp":"2026-01-02T03:04:05Z"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (%s)", rec.Code, rec.Body.String())
	}
	if len(env.events.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(env.events.events))
	}
	got := env.events.events[0]
	if got.Kind != recommend.KindPurchase || !got.Timestamp.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("recorded %+v", got)
	}
}

func TestRecordEvent_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		storeErr error
		want     int
	}{
		{"unknown kind", `{"userId":"U","productId":"P1","interactionType":"like"}`, nil, http.StatusBadRequest},
		{"missing user", `{"productId":"P1","interactionType":"view"}`, nil, http.StatusBadRequest},
		{"recorder rejects", `{"userId":"U","productId":"P1","interactionType":"view"}`, eventprocessor.ErrInvalidPayload, http.StatusBadRequest},
		{"store down", `{"userId":"U","productId":"P1","interactionType":"view"}`, errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.events.err = tt.storeErr
			if rec, _ := env.do(t, http.MethodPost, "/api/v1/events", tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec, resp := env.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got HealthStatus
	dataAs(t, resp, &got)
	if got.Version != "test" || !got.IndexReachable || got.IndexBreaker != "closed" {
		t.Errorf("health = %+v", got)
	}
	// The pass-through interpreter always reports degraded.
	if got.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", got.Status)
	}

	if rec, _ := env.do(t, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
	if rec, _ := env.do(t, http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	env.index.err = docindex.ErrUnavailable
	if rec, _ := env.do(t, http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status with index down = %d, want 503", rec.Code)
	}
}
