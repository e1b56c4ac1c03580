// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build integration

package testinfra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultElasticsearchImage is a single-node capable Elasticsearch image.
	DefaultElasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.15.3"

	elasticsearchPort = "9200/tcp"
)

// ElasticsearchContainer is a running single-node cluster with security
// disabled.
type ElasticsearchContainer struct {
	testcontainers.Container
	URL string
}

// ElasticsearchOption configures the Elasticsearch container.
type ElasticsearchOption func(*elasticsearchConfig)

type elasticsearchConfig struct {
	image        string
	startTimeout time.Duration
}

// WithElasticsearchImage sets a custom image.
func WithElasticsearchImage(image string) ElasticsearchOption {
	return func(c *elasticsearchConfig) {
		c.image = image
	}
}

// WithElasticsearchStartTimeout sets how long to wait for the cluster.
func WithElasticsearchStartTimeout(timeout time.Duration) ElasticsearchOption {
	return func(c *elasticsearchConfig) {
		c.startTimeout = timeout
	}
}

// NewElasticsearchContainer starts a cluster and waits for a green or
// yellow health status.
func NewElasticsearchContainer(ctx context.Context, opts ...ElasticsearchOption) (*ElasticsearchContainer, error) {
	cfg := &elasticsearchConfig{
		image:        DefaultElasticsearchImage,
		startTimeout: 120 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := start(ctx, "elasticsearch", cfg.image,
		testcontainers.WithExposedPorts(elasticsearchPort),
		testcontainers.WithEnv(map[string]string{
			"discovery.type":         "single-node",
			"xpack.security.enabled": "false",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		}),
		testcontainers.WithWaitStrategyAndDeadline(cfg.startTimeout,
			wait.ForHTTP("/_cluster/health?wait_for_status=yellow").WithPort(elasticsearchPort),
		),
	)
	if err != nil {
		return nil, err
	}

	url, err := c.PortEndpoint(ctx, elasticsearchPort, "http")
	if err != nil {
		discard(c)
		return nil, fmt.Errorf("elasticsearch endpoint: %w", err)
	}
	return &ElasticsearchContainer{Container: c, URL: url}, nil
}

// IndexDocuments bulk-indexes docs into index and refreshes it so they are
// immediately searchable. ProductID is indexed as text with a keyword
// sub-field, matching dynamic mapping.
func (c *ElasticsearchContainer) IndexDocuments(ctx context.Context, index string, docs []map[string]any) error {
	var body bytes.Buffer
	for _, doc := range docs {
		meta, err := json.Marshal(map[string]any{"index": map[string]any{"_index": index}})
		if err != nil {
			return err
		}
		src, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		body.Write(meta)
		body.WriteByte('\n')
		body.Write(src)
		body.WriteByte('\n')
	}

	if err := c.post(ctx, "/_bulk?refresh=true", "application/x-ndjson", &body); err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	return nil
}

// CreateIndex creates index with mapping as its mappings body.
func (c *ElasticsearchContainer) CreateIndex(ctx context.Context, index string, mapping map[string]any) error {
	raw, err := json.Marshal(map[string]any{"mappings": mapping})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.URL+"/"+index, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req)
}

func (c *ElasticsearchContainer) post(ctx context.Context, path, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return do(req)
}

func do(req *http.Request) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
