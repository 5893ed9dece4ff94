/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSamplesCountInHistogram asserts that passed prometheus.Histogram contains the specified number of samples.
func AssertSamplesCountInHistogram(t assert.TestingT, hist prometheus.Histogram, wantSamplesCount int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	reg := prometheus.NewPedanticRegistry()
	if !assert.NoError(t, reg.Register(hist)) {
		return false
	}
	gotMetrics, err := reg.Gather()
	if !assert.NoError(t, err) {
		return false
	}
	if !assert.Equal(t, 1, len(gotMetrics)) {
		return false
	}
	return assert.Equal(t, wantSamplesCount, int(gotMetrics[0].GetMetric()[0].Histogram.GetSampleCount()))
}

// RequireSamplesCountInHistogram calls AssertSamplesCountInHistogram and fail test immediately in case of error.
func RequireSamplesCountInHistogram(t require.TestingT, hist prometheus.Histogram, wantSamplesCount int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if AssertSamplesCountInHistogram(t, hist, wantSamplesCount) {
		return
	}
	t.FailNow()
}

// AssertSamplesCountInCounter asserts that passed prometheus.Counter has proper value.
func AssertSamplesCountInCounter(t assert.TestingT, counter prometheus.Counter, wantCount int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return assert.Equal(t, wantCount, int(promtestutil.ToFloat64(counter)))
}

// RequireSamplesCountInCounter calls AssertSamplesCountInCounter and fail test immediately in case of error.
func RequireSamplesCountInCounter(t require.TestingT, counter prometheus.Counter, wantCount int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if AssertSamplesCountInCounter(t, counter, wantCount) {
		return
	}
	t.FailNow()
}

// AssertSamplesCountInHistogramVec asserts that the labeled child of prometheus.HistogramVec
// contains the specified number of samples.
func AssertSamplesCountInHistogramVec(
	t assert.TestingT, vec *prometheus.HistogramVec, labels prometheus.Labels, wantSamplesCount int,
) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	observer, err := vec.GetMetricWith(labels)
	if !assert.NoError(t, err) {
		return false
	}
	metric, ok := observer.(prometheus.Metric)
	if !assert.True(t, ok, "observer is not a metric") {
		return false
	}
	var m dto.Metric
	if !assert.NoError(t, metric.Write(&m)) {
		return false
	}
	return assert.Equal(t, wantSamplesCount, int(m.GetHistogram().GetSampleCount()))
}

// RequireSamplesCountInHistogramVec calls AssertSamplesCountInHistogramVec and fail test immediately in case of error.
func RequireSamplesCountInHistogramVec(
	t require.TestingT, vec *prometheus.HistogramVec, labels prometheus.Labels, wantSamplesCount int,
) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if AssertSamplesCountInHistogramVec(t, vec, labels, wantSamplesCount) {
		return
	}
	t.FailNow()
}
