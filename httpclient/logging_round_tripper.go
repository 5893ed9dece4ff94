/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/crpt-tools/crptapi/log"
)

// LoggingMode represents a mode of logging.
type LoggingMode string

// Logging modes.
const (
	LoggingModeNone   LoggingMode = "none"
	LoggingModeAll    LoggingMode = "all"
	LoggingModeFailed LoggingMode = "failed"
)

// IsValid checks if the logger mode is valid.
func (lm LoggingMode) IsValid() bool {
	switch lm {
	case LoggingModeNone, LoggingModeAll, LoggingModeFailed:
		return true
	}
	return false
}

// LoggingRoundTripper implements http.RoundTripper for logging requests.
type LoggingRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// ReqType is a type of request, e.g. "create-document".
	ReqType string

	// Opts are the options for the logging round tripper.
	Opts LoggingRoundTripperOpts
}

// LoggingRoundTripperOpts represents an options for LoggingRoundTripper.
type LoggingRoundTripperOpts struct {
	// LoggerProvider is a function that provides a context-specific logger.
	// GetLoggerFromContext is used by default.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// Mode of logging: none, all, failed. All by default.
	Mode LoggingMode

	// SlowRequestThreshold is a threshold for slow requests.
	// Requests that are faster are not logged unless they failed.
	SlowRequestThreshold time.Duration
}

// NewLoggingRoundTripper creates an HTTP transport that log requests.
func NewLoggingRoundTripper(delegate http.RoundTripper, reqType string) http.RoundTripper {
	return NewLoggingRoundTripperWithOpts(delegate, reqType, LoggingRoundTripperOpts{})
}

// NewLoggingRoundTripperWithOpts creates an HTTP transport that log requests with options.
func NewLoggingRoundTripperWithOpts(
	delegate http.RoundTripper, reqType string, opts LoggingRoundTripperOpts,
) http.RoundTripper {
	if opts.Mode == "" {
		opts.Mode = LoggingModeAll
	}
	return &LoggingRoundTripper{
		Delegate: delegate,
		ReqType:  reqType,
		Opts:     opts,
	}
}

func (rt *LoggingRoundTripper) getLogger(ctx context.Context) log.FieldLogger {
	if rt.Opts.LoggerProvider != nil {
		return rt.Opts.LoggerProvider(ctx)
	}
	return GetLoggerFromContext(ctx)
}

// RoundTrip adds logging capabilities to the HTTP transport.
func (rt *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Opts.Mode == LoggingModeNone {
		return rt.Delegate.RoundTrip(r)
	}

	ctx := r.Context()
	logger := rt.getLogger(ctx)
	start := time.Now()

	resp, err := rt.Delegate.RoundTrip(r)
	elapsed := time.Since(start)
	if logger == nil {
		return resp, err
	}

	failed := err != nil || (resp != nil && resp.StatusCode >= http.StatusBadRequest)
	if rt.Opts.Mode == LoggingModeFailed && !failed {
		return resp, err
	}
	if !failed && elapsed < rt.Opts.SlowRequestThreshold {
		return resp, err
	}

	fields := []log.Field{
		log.String("request_type", rt.ReqType),
		log.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if requestID := r.Header.Get(RequestIDHeader); requestID != "" {
		fields = append(fields, log.String("request_id", requestID))
	}
	msg := fmt.Sprintf("client http request %s %s req type %s", r.Method, r.URL.String(), rt.ReqType)
	if resp != nil {
		msg += fmt.Sprintf(" status code %d", resp.StatusCode)
		fields = append(fields, log.Int("status_code", resp.StatusCode))
	}
	msg += fmt.Sprintf(", time taken %.3f", elapsed.Seconds())

	switch {
	case err != nil:
		logger.Error(msg, append(fields, log.Error(err))...)
	case failed:
		logger.Warn(msg, fields...)
	default:
		logger.Info(msg, fields...)
	}

	return resp, err
}
