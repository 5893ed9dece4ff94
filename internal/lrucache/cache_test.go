/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/testutil"
)

type submittedDocument struct {
	Path string
}

func TestLRUCache(t *testing.T) {
	keyOf := func(s string) [sha256.Size]byte { return sha256.Sum256([]byte(s)) }

	t.Run("get and add", func(t *testing.T) {
		metrics := NewPrometheusMetrics(PrometheusMetricsOpts{Namespace: "crptapi"})
		cache, err := NewWithOpts[[sha256.Size]byte, submittedDocument](2, Opts{MetricsCollector: metrics})
		require.NoError(t, err)

		_, found := cache.Get(keyOf("doc-1"))
		require.False(t, found)

		cache.Add(keyOf("doc-1"), submittedDocument{"a.json"})
		cache.Add(keyOf("doc-2"), submittedDocument{"b.json"})
		doc, found := cache.Get(keyOf("doc-1"))
		require.True(t, found)
		require.Equal(t, "a.json", doc.Path)

		// doc-2 is the least recently used one now.
		cache.Add(keyOf("doc-3"), submittedDocument{"c.json"})
		_, found = cache.Get(keyOf("doc-2"))
		require.False(t, found)
		require.Equal(t, 2, cache.Len())

		require.Equal(t, 2.0, promtestutil.ToFloat64(metrics.EntriesAmount))
		testutil.RequireSamplesCountInCounter(t, metrics.HitsTotal, 1)
		testutil.RequireSamplesCountInCounter(t, metrics.MissesTotal, 2)
		testutil.RequireSamplesCountInCounter(t, metrics.EvictionsTotal, 1)

		require.True(t, cache.Remove(keyOf("doc-1")))
		require.False(t, cache.Remove(keyOf("doc-1")))
		require.Equal(t, 1.0, promtestutil.ToFloat64(metrics.EntriesAmount))
	})

	t.Run("expiration", func(t *testing.T) {
		now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
		cache, err := NewWithOpts[string, int](10, Opts{DefaultTTL: time.Minute, Now: func() time.Time { return now }})
		require.NoError(t, err)

		cache.Add("a.json", 1)
		cache.AddWithTTL("b.json", 2, 0)
		now = now.Add(time.Second * 59)
		_, found := cache.Get("a.json")
		require.True(t, found)

		now = now.Add(time.Second)
		_, found = cache.Get("a.json")
		require.False(t, found)
		_, found = cache.Get("b.json")
		require.True(t, found)
		require.Equal(t, 1, cache.Len())
	})

	t.Run("replace existing entry", func(t *testing.T) {
		cache, err := New[string, int](1)
		require.NoError(t, err)
		cache.Add("a.json", 1)
		cache.Add("a.json", 2)
		value, found := cache.Get("a.json")
		require.True(t, found)
		require.Equal(t, 2, value)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New[string, int](0)
		require.EqualError(t, err, "maxEntries must be greater than 0, got 0")
		_, err = NewWithOpts[string, int](1, Opts{DefaultTTL: -time.Second})
		require.EqualError(t, err, "defaultTTL must be greater or equal to 0 (no expiration), got -1s")
	})
}

func TestPrometheusMetrics_Register(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	metrics := NewPrometheusMetrics(PrometheusMetricsOpts{Namespace: "crptapi", ConstLabels: prometheus.Labels{"cache": "submitted"}})
	metrics.MustRegisterIn(registry)
	metrics.IncHits()
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)
	metrics.UnregisterFrom(registry)
	families, err = registry.Gather()
	require.NoError(t, err)
	require.Empty(t, families)
}
