/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import "github.com/prometheus/client_golang/prometheus"

// MetricsCollector collects statistics of cache usage.
type MetricsCollector interface {
	SetAmount(int)
	IncHits()
	IncMisses()
	AddEvictions(int)
}

type disabledMetrics struct{}

func (disabledMetrics) SetAmount(int)    {}
func (disabledMetrics) IncHits()         {}
func (disabledMetrics) IncMisses()       {}
func (disabledMetrics) AddEvictions(int) {}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels applied to all metrics (e.g. the cache name).
	ConstLabels prometheus.Labels
}

// PrometheusMetrics represents Prometheus metrics of the cache.
type PrometheusMetrics struct {
	EntriesAmount  prometheus.Gauge
	HitsTotal      prometheus.Counter
	MissesTotal    prometheus.Counter
	EvictionsTotal prometheus.Counter
}

// NewPrometheusMetrics creates PrometheusMetrics with the given options.
func NewPrometheusMetrics(opts PrometheusMetricsOpts) *PrometheusMetrics {
	return &PrometheusMetrics{
		EntriesAmount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_entries_amount",
			Help:        "Total number of entries in the cache.",
			ConstLabels: opts.ConstLabels,
		}),
		HitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_hits_total",
			Help:        "Number of successfully found keys in the cache.",
			ConstLabels: opts.ConstLabels,
		}),
		MissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_misses_total",
			Help:        "Number of not found keys in the cache.",
			ConstLabels: opts.ConstLabels,
		}),
		EvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_evictions_total",
			Help:        "Number of evicted entries.",
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// MustRegisterIn registers the metrics in the registerer and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegisterIn(r prometheus.Registerer) {
	r.MustRegister(pm.EntriesAmount, pm.HitsTotal, pm.MissesTotal, pm.EvictionsTotal)
}

// UnregisterFrom cancels registration of the metrics in the registerer.
func (pm *PrometheusMetrics) UnregisterFrom(r prometheus.Registerer) {
	r.Unregister(pm.EntriesAmount)
	r.Unregister(pm.HitsTotal)
	r.Unregister(pm.MissesTotal)
	r.Unregister(pm.EvictionsTotal)
}

// SetAmount sets the total number of entries in the cache.
func (pm *PrometheusMetrics) SetAmount(amount int) {
	pm.EntriesAmount.Set(float64(amount))
}

// IncHits increments the number of found keys.
func (pm *PrometheusMetrics) IncHits() {
	pm.HitsTotal.Inc()
}

// IncMisses increments the number of not found keys.
func (pm *PrometheusMetrics) IncMisses() {
	pm.MissesTotal.Inc()
}

// AddEvictions adds n to the number of evicted entries.
func (pm *PrometheusMetrics) AddEvictions(n int) {
	pm.EvictionsTotal.Add(float64(n))
}
