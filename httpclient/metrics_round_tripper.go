/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultRequestType is used when no request type is provided.
const DefaultRequestType = "unknown"

// ClassifyRequest does request classification, producing non-parameterized summary for given request.
var ClassifyRequest func(r *http.Request, requestType string) string

// MetricsCollector is an interface for collecting metrics for client requests.
type MetricsCollector interface {
	// RequestDuration observes the duration of the request and the status code.
	RequestDuration(requestType, remoteAddress, summary, status string, startTime time.Time)
}

// PrometheusMetricsCollector is a Prometheus metrics collector.
type PrometheusMetricsCollector struct {
	// Durations is a histogram of the http client requests durations.
	Durations *prometheus.HistogramVec
}

var _ MetricsCollector = (*PrometheusMetricsCollector)(nil)

// NewPrometheusMetricsCollector creates a new Prometheus metrics collector.
func NewPrometheusMetricsCollector(namespace string) *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_request_duration_seconds",
			Help:      "A histogram of the http client requests durations.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"type", "remote_address", "summary", "status"}),
	}
}

// MustRegister registers the Prometheus metrics in the default registerer.
func (p *PrometheusMetricsCollector) MustRegister() {
	p.MustRegisterIn(prometheus.DefaultRegisterer)
}

// MustRegisterIn registers the Prometheus metrics in the given registerer.
func (p *PrometheusMetricsCollector) MustRegisterIn(r prometheus.Registerer) {
	r.MustRegister(p.Durations)
}

// Unregister the Prometheus metrics.
func (p *PrometheusMetricsCollector) Unregister() {
	prometheus.Unregister(p.Durations)
}

// RequestDuration observes the duration of the request and the status code.
func (p *PrometheusMetricsCollector) RequestDuration(requestType, host, summary, status string, start time.Time) {
	p.Durations.WithLabelValues(requestType, host, summary, status).Observe(time.Since(start).Seconds())
}

// MetricsRoundTripper is an HTTP transport that measures requests done.
type MetricsRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// RequestType is a type of request, e.g. "create-document".
	RequestType string

	// Collector is a metrics collector.
	Collector MetricsCollector
}

// MetricsRoundTripperOpts represents an options for MetricsRoundTripper.
type MetricsRoundTripperOpts struct {
	// RequestType is a type of request. DefaultRequestType is used if empty.
	RequestType string

	// Collector is a metrics collector.
	Collector MetricsCollector
}

// NewMetricsRoundTripper creates an HTTP transport that measures requests done.
func NewMetricsRoundTripper(delegate http.RoundTripper, collector MetricsCollector) http.RoundTripper {
	return NewMetricsRoundTripperWithOpts(delegate, MetricsRoundTripperOpts{Collector: collector})
}

// NewMetricsRoundTripperWithOpts creates an HTTP transport that measures requests done.
func NewMetricsRoundTripperWithOpts(delegate http.RoundTripper, opts MetricsRoundTripperOpts) http.RoundTripper {
	requestType := opts.RequestType
	if requestType == "" {
		requestType = DefaultRequestType
	}
	return &MetricsRoundTripper{Delegate: delegate, RequestType: requestType, Collector: opts.Collector}
}

// RoundTrip measures external requests done.
// Status "0" is reported for requests that failed without a response.
func (rt *MetricsRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Collector == nil {
		return rt.Delegate.RoundTrip(r)
	}

	status := "0"
	start := time.Now()

	resp, err := rt.Delegate.RoundTrip(r)
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	rt.Collector.RequestDuration(rt.RequestType, r.URL.Host, requestSummary(r, rt.RequestType), status, start)
	return resp, err
}

func requestSummary(r *http.Request, requestType string) string {
	if ClassifyRequest != nil {
		return ClassifyRequest(r, requestType)
	}
	return r.Method + " " + requestType
}
