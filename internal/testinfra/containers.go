// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfNoDocker skips t when no container provider is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// CleanupContainer terminates c, logging rather than failing t on error.
// A nil container is ignored.
func CleanupContainer(t *testing.T, ctx context.Context, c testcontainers.Container) {
	t.Helper()
	if err := testcontainers.TerminateContainer(c, testcontainers.StopContext(ctx)); err != nil {
		t.Logf("terminate container: %v", err)
	}
}

// start runs image with opts. A container that started but failed its
// wait strategy is terminated before returning.
func start(ctx context.Context, name, image string, opts ...testcontainers.ContainerCustomizer) (testcontainers.Container, error) {
	c, err := testcontainers.Run(ctx, image, opts...)
	if err != nil {
		discard(c)
		return nil, fmt.Errorf("start %s container: %w", name, err)
	}
	return c, nil
}

func discard(c testcontainers.Container) {
	_ = testcontainers.TerminateContainer(c)
}
