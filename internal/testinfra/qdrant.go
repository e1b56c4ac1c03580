// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultQdrantImage is the Qdrant image used for vector search tests.
const DefaultQdrantImage = "qdrant/qdrant:v1.12.4"

const (
	qdrantGRPCPort = "6334/tcp"
	qdrantHTTPPort = "6333/tcp"
)

// QdrantContainer is a running Qdrant server without an API key. Clients
// talk gRPC; the HTTP port only serves the readiness probe.
type QdrantContainer struct {
	testcontainers.Container
	Host     string
	GRPCPort int
}

// NewQdrantContainer starts Qdrant and waits until /readyz answers.
func NewQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	c, err := start(ctx, "qdrant", DefaultQdrantImage,
		testcontainers.WithExposedPorts(qdrantGRPCPort, qdrantHTTPPort),
		testcontainers.WithWaitStrategyAndDeadline(90*time.Second,
			wait.ForListeningPort(qdrantGRPCPort),
			wait.ForHTTP("/readyz").WithPort(qdrantHTTPPort),
		),
	)
	if err != nil {
		return nil, err
	}

	host, err := c.Host(ctx)
	if err != nil {
		discard(c)
		return nil, fmt.Errorf("qdrant host: %w", err)
	}
	port, err := c.MappedPort(ctx, qdrantGRPCPort)
	if err != nil {
		discard(c)
		return nil, fmt.Errorf("qdrant grpc port: %w", err)
	}
	return &QdrantContainer{Container: c, Host: host, GRPCPort: port.Int()}, nil
}
