// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLRU_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewLRU(10, time.Minute)

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) = found, want miss")
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", got, ok, err)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit 1 miss", stats)
	}
	if rate := stats.HitRate(); rate != 50 {
		t.Errorf("HitRate() = %v, want 50", rate)
	}
}

func TestLRU_CopiesValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewLRU(10, time.Minute)
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'
	if got, _, _ := c.Get(ctx, "k"); string(got) != "abc" {
		t.Errorf("Get(k) = %q, want abc", got)
	}
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewLRU(2, time.Minute)
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_, _, _ = c.Get(ctx, "a") // a is now most recent
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRU_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewLRU(10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Second)
	_ = c.Set(ctx, "default", []byte("y"), 0)

	now = now.Add(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("short should have expired")
	}
	if _, ok, _ := c.Get(ctx, "default"); !ok {
		t.Error("default TTL entry expired too early")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after lazy expiry", c.Len())
	}
}

func TestLRU_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewLRU(10, time.Minute)
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("k still present after Delete")
	}
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewLRU(64, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%100)
				_ = c.Set(ctx, key, []byte(key), 0)
				_, _, _ = c.Get(ctx, key)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len() = %d, exceeds capacity 64", c.Len())
	}
}
