// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	defaultLRUCapacity = 10000
	defaultLRUTTL      = 5 * time.Minute
)

type lruItem struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// LRU is the in-process Store: a bounded map with least-recently-used
// eviction. Expired entries are dropped when they are next read.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	order *list.List // front is most recently used
	items map[string]*list.Element

	hits, misses int64
}

// NewLRU returns an LRU holding up to capacity entries. Non-positive
// arguments select the defaults.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = defaultLRUCapacity
	}
	if ttl <= 0 {
		ttl = defaultLRUTTL
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Name implements Store.
func (c *LRU) Name() string { return "memory" }

// Get implements Store.
func (c *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok && c.now().After(el.Value.(*lruItem).expiresAt) {
		c.remove(el)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	c.hits++
	return el.Value.(*lruItem).value, true, nil
}

// Set implements Store. The value is copied; ttl <= 0 uses the default.
func (c *LRU) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	item := &lruItem{key: key, value: append([]byte(nil), value...)}

	c.mu.Lock()
	defer c.mu.Unlock()

	item.expiresAt = c.now().Add(ttl)
	if el, ok := c.items[key]; ok {
		el.Value = item
		c.order.MoveToFront(el)
		return nil
	}
	c.items[key] = c.order.PushFront(item)
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
	return nil
}

// Delete implements Store.
func (c *LRU) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
	return nil
}

// Len counts entries, including expired ones not yet read.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counts since construction.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, TotalKeys: int64(c.order.Len())}
}

func (c *LRU) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*lruItem).key)
}
