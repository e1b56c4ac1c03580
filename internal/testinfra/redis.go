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

// DefaultRedisImage is the Redis image used for cache tests.
const DefaultRedisImage = "redis:7-alpine"

const redisPort = "6379/tcp"

// RedisContainer is a running Redis server without authentication.
type RedisContainer struct {
	testcontainers.Container
	Addr string // host:port
}

// NewRedisContainer starts Redis with persistence off.
func NewRedisContainer(ctx context.Context) (*RedisContainer, error) {
	c, err := start(ctx, "redis", DefaultRedisImage,
		testcontainers.WithExposedPorts(redisPort),
		testcontainers.WithCmd("redis-server", "--save", "", "--appendonly", "no"),
		testcontainers.WithWaitStrategyAndDeadline(time.Minute,
			wait.ForListeningPort(redisPort),
			wait.ForLog("Ready to accept connections"),
		),
	)
	if err != nil {
		return nil, err
	}

	addr, err := c.PortEndpoint(ctx, redisPort, "")
	if err != nil {
		discard(c)
		return nil, fmt.Errorf("redis endpoint: %w", err)
	}
	return &RedisContainer{Container: c, Addr: addr}, nil
}
