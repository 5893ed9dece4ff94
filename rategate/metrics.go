/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package rategate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector collects RateGate events.
type MetricsCollector interface {
	// IncAdmissions increments the number of admitted callers.
	IncAdmissions()
	// IncCancellations increments the number of callers that gave up before admission.
	IncCancellations()
	// IncRollovers increments the number of window resets.
	IncRollovers()
	// ObserveWaitDuration observes how long an admitted caller waited.
	ObserveWaitDuration(d time.Duration)
}

type disabledMetrics struct{}

func (disabledMetrics) IncAdmissions()                    {}
func (disabledMetrics) IncCancellations()                 {}
func (disabledMetrics) IncRollovers()                     {}
func (disabledMetrics) ObserveWaitDuration(time.Duration) {}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is prepended to all metric names.
	Namespace string

	// ConstLabels are applied to all metrics (e.g. the name of the guarded operation).
	ConstLabels prometheus.Labels
}

// PrometheusMetrics is a Prometheus implementation of MetricsCollector.
type PrometheusMetrics struct {
	Admissions    prometheus.Counter
	Cancellations prometheus.Counter
	Rollovers     prometheus.Counter
	WaitDurations prometheus.Histogram
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	return &PrometheusMetrics{
		Admissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_gate_admissions_total",
			Help:        "Number of callers admitted by the rate gate.",
			ConstLabels: opts.ConstLabels,
		}),
		Cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_gate_cancellations_total",
			Help:        "Number of callers that stopped waiting before admission.",
			ConstLabels: opts.ConstLabels,
		}),
		Rollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_gate_rollovers_total",
			Help:        "Number of rate gate window resets.",
			ConstLabels: opts.ConstLabels,
		}),
		WaitDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_gate_wait_duration_seconds",
			Help:        "A histogram of time spent by admitted callers waiting for the rate gate.",
			Buckets:     []float64{0, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// MustRegister registers the metrics in the default Prometheus registerer.
func (pm *PrometheusMetrics) MustRegister() {
	pm.MustRegisterIn(prometheus.DefaultRegisterer)
}

// MustRegisterIn registers the metrics in the given registerer.
func (pm *PrometheusMetrics) MustRegisterIn(r prometheus.Registerer) {
	r.MustRegister(pm.Admissions, pm.Cancellations, pm.Rollovers, pm.WaitDurations)
}

// Unregister removes the metrics from the default Prometheus registerer.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.Admissions)
	prometheus.Unregister(pm.Cancellations)
	prometheus.Unregister(pm.Rollovers)
	prometheus.Unregister(pm.WaitDurations)
}

// IncAdmissions implements MetricsCollector.
func (pm *PrometheusMetrics) IncAdmissions() {
	pm.Admissions.Inc()
}

// IncCancellations implements MetricsCollector.
func (pm *PrometheusMetrics) IncCancellations() {
	pm.Cancellations.Inc()
}

// IncRollovers implements MetricsCollector.
func (pm *PrometheusMetrics) IncRollovers() {
	pm.Rollovers.Inc()
}

// ObserveWaitDuration implements MetricsCollector.
func (pm *PrometheusMetrics) ObserveWaitDuration(d time.Duration) {
	pm.WaitDurations.Observe(d.Seconds())
}
