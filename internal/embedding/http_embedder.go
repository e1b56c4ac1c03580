// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// HTTPConfig configures an HTTPEmbedder.
type HTTPConfig struct {
	URL       string
	Model     string
	APIKey    string
	Dimension int
	Timeout   time.Duration

	// RatePerSecond caps outgoing requests. Zero disables the limit.
	RatePerSecond float64
	Burst         int
}

// HTTPEmbedder calls a remote embedding endpoint. It accepts both the bare
// {"embedding": [...]} response shape and the OpenAI-style
// {"data": [{"embedding": [...]}]} shape.
type HTTPEmbedder struct {
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter
}

type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Data      []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewHTTPEmbedder creates an embedder for cfg. A nil client gets a default
// one with cfg.Timeout.
func NewHTTPEmbedder(cfg HTTPConfig, client *http.Client) *HTTPEmbedder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return &HTTPEmbedder{cfg: cfg, client: client, limiter: limiter}
}

// Dimension implements Embedder.
func (e *HTTPEmbedder) Dimension() int { return e.cfg.Dimension }

// Identity implements Identifier. It covers the endpoint and model but
// not credentials.
func (e *HTTPEmbedder) Identity() string {
	return fmt.Sprintf("http:%s@%s/%d", e.cfg.Model, e.cfg.URL, e.cfg.Dimension)
}

// Embed implements Embedder.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(embedRequest{Input: text, Model: e.cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	switch {
	case len(out.Embedding) > 0:
		return out.Embedding, nil
	case len(out.Data) > 0 && len(out.Data[0].Embedding) > 0:
		return out.Data[0].Embedding, nil
	}
	return nil, errors.New("embedding response carried no vector")
}
