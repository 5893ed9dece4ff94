/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"
)

// RequestIDHeader is the header that carries the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestIDRoundTripper sets X-Request-ID header to the request.
type RequestIDRoundTripper struct {
	Delegate http.RoundTripper
	Opts     RequestIDRoundTripperOpts
}

// RequestIDRoundTripperOpts represents an options for RequestIDRoundTripper.
type RequestIDRoundTripperOpts struct {
	// RequestIDProvider is a function that provides a request ID.
	// GetRequestIDFromContext is used by default.
	RequestIDProvider func(ctx context.Context) string
}

// NewRequestIDRoundTripper creates an HTTP transport with X-Request-ID header support.
func NewRequestIDRoundTripper(delegate http.RoundTripper) http.RoundTripper {
	return NewRequestIDRoundTripperWithOpts(delegate, RequestIDRoundTripperOpts{})
}

// NewRequestIDRoundTripperWithOpts creates an HTTP transport with X-Request-ID header support with options.
func NewRequestIDRoundTripperWithOpts(delegate http.RoundTripper, opts RequestIDRoundTripperOpts) http.RoundTripper {
	if opts.RequestIDProvider == nil {
		opts.RequestIDProvider = GetRequestIDFromContext
	}
	return &RequestIDRoundTripper{Delegate: delegate, Opts: opts}
}

// RoundTrip adds X-Request-ID header to the request.
// A new ID is generated when neither the header nor the provider supplies one.
func (rt *RequestIDRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(RequestIDHeader) != "" {
		return rt.Delegate.RoundTrip(r)
	}
	requestID := rt.Opts.RequestIDProvider(r.Context())
	if requestID == "" {
		requestID = NewRequestID()
	}
	r = r.Clone(r.Context()) // Per RoundTripper contract.
	r.Header.Set(RequestIDHeader, requestID)
	return rt.Delegate.RoundTrip(r)
}
