/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package lrucache provides an in-memory LRU cache with optional expiration and Prometheus metrics.
// The directory watcher uses it to remember documents it has already submitted.
package lrucache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

type cacheEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUCache is an LRU cache safe for concurrent use.
type LRUCache[K comparable, V any] struct {
	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	lruList *list.List
	cache   map[K]*list.Element

	metricsCollector MetricsCollector
}

// Opts represents options for the cache.
type Opts struct {
	// DefaultTTL is the TTL of entries added with Add. Zero means no expiration.
	// Expired entries are removed lazily, on access.
	DefaultTTL time.Duration

	// MetricsCollector collects cache statistics. Metrics are disabled if nil.
	MetricsCollector MetricsCollector

	// Now is used instead of time.Now (e.g. in tests).
	Now func() time.Time
}

// New creates a new LRUCache with the provided maximum number of entries.
func New[K comparable, V any](maxEntries int) (*LRUCache[K, V], error) {
	return NewWithOpts[K, V](maxEntries, Opts{})
}

// NewWithOpts creates a new LRUCache with the provided maximum number of entries and options.
func NewWithOpts[K comparable, V any](maxEntries int, opts Opts) (*LRUCache[K, V], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("maxEntries must be greater than 0, got %d", maxEntries)
	}
	if opts.DefaultTTL < 0 {
		return nil, fmt.Errorf("defaultTTL must be greater or equal to 0 (no expiration), got %s", opts.DefaultTTL)
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LRUCache[K, V]{
		maxEntries:       maxEntries,
		defaultTTL:       opts.DefaultTTL,
		now:              opts.Now,
		lruList:          list.New(),
		cache:            make(map[K]*list.Element),
		metricsCollector: opts.MetricsCollector,
	}, nil
}

// Get returns a value by the key and marks the entry as recently used.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, hit := c.cache[key]
	if !hit {
		c.metricsCollector.IncMisses()
		return value, false
	}
	entry := elem.Value.(*cacheEntry[K, V])
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.lruList.Remove(elem)
		delete(c.cache, key)
		c.metricsCollector.SetAmount(len(c.cache))
		c.metricsCollector.IncMisses()
		return value, false
	}
	c.lruList.MoveToFront(elem)
	c.metricsCollector.IncHits()
	return entry.value, true
}

// Add adds a value with the default TTL. The least recently used entry is evicted if the cache is full.
func (c *LRUCache[K, V]) Add(key K, value V) {
	c.AddWithTTL(key, value, c.defaultTTL)
}

// AddWithTTL adds a value with the given TTL (zero means no expiration).
func (c *LRUCache[K, V]) AddWithTTL(key K, value V, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	entry := &cacheEntry[K, V]{key: key, value: value, expiresAt: expiresAt}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		elem.Value = entry
		c.lruList.MoveToFront(elem)
		return
	}
	c.cache[key] = c.lruList.PushFront(entry)
	if len(c.cache) > c.maxEntries {
		oldest := c.lruList.Back()
		c.lruList.Remove(oldest)
		delete(c.cache, oldest.Value.(*cacheEntry[K, V]).key)
		c.metricsCollector.AddEvictions(1)
	}
	c.metricsCollector.SetAmount(len(c.cache))
}

// Remove removes a value by the key.
func (c *LRUCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		return false
	}
	c.lruList.Remove(elem)
	delete(c.cache, key)
	c.metricsCollector.SetAmount(len(c.cache))
	return true
}

// Len returns the number of entries, including expired ones not yet removed.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
