// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/shopsense/internal/testinfra"
)

func TestRedis_AgainstServer(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	srv, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, srv.Container)

	store, err := NewRedis(ctx, RedisConfig{Addr: srv.Addr, Prefix: "test:", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", ok, err)
	}
	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v", got, ok, err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("Get(k) after Delete() hit")
	}

	if err := store.Set(ctx, "short", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "short"); ok {
		t.Error("Get(short) hit after TTL")
	}
}
