// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package docindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/query"
)

const maxErrorBody = 512

// Client queries the product index over the Elasticsearch search API.
// Every request passes through a circuit breaker.
type Client struct {
	searchURL string
	pingURL   string
	apiKey    string
	username  string
	password  string
	http      *http.Client
	breaker   *breaker
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// New creates a client for cfg. A nil httpClient gets one with cfg.Timeout.
func New(cfg *config.DocIndexConfig, httpClient *http.Client) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("docindex config is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid docindex URL %q", cfg.URL)
	}
	if cfg.Index == "" {
		return nil, errors.New("docindex index name is required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	settings := DefaultBreakerSettings()
	if cfg.BreakerMaxRequests > 0 {
		settings.MaxRequests = cfg.BreakerMaxRequests
	}
	if cfg.BreakerInterval > 0 {
		settings.Interval = cfg.BreakerInterval
	}
	if cfg.BreakerTimeout > 0 {
		settings.Timeout = cfg.BreakerTimeout
	}
	if cfg.BreakerMinRequests > 0 {
		settings.MinRequests = cfg.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio > 0 {
		settings.FailureRatio = cfg.BreakerFailureRatio
	}

	return &Client{
		searchURL: base.String() + "/" + url.PathEscape(cfg.Index) + "/_search",
		pingURL:   base.String() + "/",
		apiKey:    cfg.APIKey,
		username:  cfg.Username,
		password:  cfg.Password,
		http:      httpClient,
		breaker:   newBreaker("docindex", settings),
	}, nil
}

// Search runs the query built from p and returns up to SearchSize products.
func (c *Client) Search(ctx context.Context, p *query.Predicate) ([]Product, error) {
	return c.search(ctx, "search", BuildSearch(p))
}

// ByID returns the product whose id field equals id, or ErrNotFound.
func (c *Client) ByID(ctx context.Context, id string) (Product, error) {
	products, err := c.search(ctx, "by_id", ByIDQuery(id))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return products[0], nil
}

// All returns up to AllSize products.
func (c *Client) All(ctx context.Context) ([]Product, error) {
	return c.search(ctx, "all", AllQuery())
}

// Latest returns the limit newest products.
func (c *Client) Latest(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = LatestLimit
	}
	return c.search(ctx, "latest", LatestQuery(limit))
}

// ByProductIDs returns the products for ids in ids order. Ids the index
// does not know are skipped.
func (c *Client) ByProductIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	products, err := c.search(ctx, "by_product_ids", ByProductIDsQuery(ids))
	if err != nil {
		return nil, err
	}
	return orderByIDs(products, ids), nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.breaker.execute(func() ([]Product, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pingURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		c.authorize(req)
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, statusError(resp.StatusCode, nil)
	})
	return err
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

func (c *Client) search(ctx context.Context, operation string, body Body) ([]Product, error) {
	start := time.Now()
	products, err := c.breaker.execute(func() ([]Product, error) {
		return c.do(ctx, body)
	})
	metrics.RecordDocIndex(operation, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("docindex %s: %w", operation, err)
	}
	return products, nil
}

func (c *Client) do(ctx context.Context, body Body) ([]Product, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, snippet)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrUnavailable, err)
	}
	products := make([]Product, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		products = append(products, h.Source)
	}
	return products, nil
}

func (c *Client) authorize(req *http.Request) {
	switch {
	case c.apiKey != "":
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}
}

// statusError maps a response status to nil, ErrRejected (4xx) or
// ErrUnavailable (everything else).
func statusError(code int, body []byte) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code >= 400 && code <= 499:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, code, bytes.TrimSpace(body))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, code, bytes.TrimSpace(body))
	}
}
