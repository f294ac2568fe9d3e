// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"sync"

	"github.com/apex/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/staranto/wtyctlgo/internal/product"
)

// Cloner is implemented by values that can produce an independent deep copy
// of themselves.
type Cloner[V any] interface {
	Clone() V
}

// Key returns the render cache key of p. It changes whenever p's content
// version changes, so an entry built from older content is never found under
// the new key.
func Key(p product.Product) string {
	return p.ID + "_" + p.ContentVersion()
}

// Stats are the running counters of a RenderCache.
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
}

// RenderCache maps content-version keys to view fragments. Entries leave in
// insertion order: reads never promote an entry. Values are copied on the way
// in and on the way out, so callers never share memory with the cache.
type RenderCache[V Cloner[V]] struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, V]
	stats Stats
}

// New returns a RenderCache holding at most capacity entries. Putting a new
// entry into a full cache drops the oldest one.
func New[V Cloner[V]](capacity int) (*RenderCache[V], error) {
	l, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create render cache: %w", err)
	}
	return &RenderCache[V]{lru: l}, nil
}

// Get returns a copy of the fragment stored under key.
func (c *RenderCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Peek(key)
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	return v.Clone(), true
}

// Put stores a copy of v under key. Re-putting an existing key counts as a
// fresh insertion.
func (c *RenderCache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Remove(key)
	if c.lru.Add(key, v.Clone()) {
		c.stats.Evictions++
		log.WithField("key", key).Debug("render cache full, oldest entry dropped")
	}
}

// Evict removes up to n of the oldest-inserted entries and returns how many
// were removed.
func (c *RenderCache[V]) Evict(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for ; evicted < n; evicted++ {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
	}
	c.stats.Evictions += evicted
	return evicted
}

// Clear removes every entry.
func (c *RenderCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.lru.Len()
	c.lru.Purge()
	log.Debugf("render cache cleared (%d entries)", n)
}

// Len returns the number of entries.
func (c *RenderCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys returns the keys from oldest to newest.
func (c *RenderCache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

// Stats returns a snapshot of the counters.
func (c *RenderCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
