/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package httpclient builds the *http.Client used to talk to the registry.
// The transport is a chain of round trippers: request ID, user agent, bearer authorization,
// metrics and logging. Rate limiting and retries are not done here, they are the job of the caller.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/crpt-tools/crptapi/internal/libinfo"
	"github.com/crpt-tools/crptapi/log"
	"github.com/crpt-tools/crptapi/netutil"
)

// New creates an HTTP client according to the configuration.
func New(cfg *Config) (*http.Client, error) {
	return NewWithOpts(cfg, Opts{})
}

// Must creates an HTTP client according to the configuration and panics if any error occurs.
func Must(cfg *Config) *http.Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Opts provides options for NewWithOpts and MustWithOpts functions.
type Opts struct {
	// UserAgent overrides the one from the configuration.
	UserAgent string

	// RequestType is a type of request, e.g. "create-document". It is used in logs and metrics.
	RequestType string

	// Delegate is the next RoundTripper in the chain. A clone of http.DefaultTransport is used by default.
	Delegate http.RoundTripper

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// RequestIDProvider is a function that provides a request ID.
	RequestIDProvider func(ctx context.Context) string

	// Collector is a metrics collector. It is required when metrics are enabled in the configuration.
	Collector MetricsCollector

	// AuthProvider overrides the static token from the configuration.
	AuthProvider AuthProvider
}

// NewWithOpts creates an HTTP client according to the configuration and options.
func NewWithOpts(cfg *Config, opts Opts) (*http.Client, error) {
	delegate := opts.Delegate
	if delegate == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if len(cfg.DNS.Servers) != 0 {
			resolver, err := netutil.NewCustomDNSResolver(cfg.DNS.Servers, cfg.DNS.Timeout)
			if err != nil {
				return nil, fmt.Errorf("create dns resolver: %w", err)
			}
			transport.DialContext = (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
				Resolver:  resolver,
			}).DialContext
		}
		delegate = transport
	}

	if cfg.Log.Enabled {
		logOpts := cfg.Log.TransportOpts()
		logOpts.LoggerProvider = opts.LoggerProvider
		delegate = NewLoggingRoundTripperWithOpts(delegate, opts.RequestType, logOpts)
	}

	if cfg.Metrics.Enabled {
		if opts.Collector == nil {
			return nil, errors.New("metrics collector must be provided when metrics are enabled")
		}
		delegate = NewMetricsRoundTripperWithOpts(delegate, MetricsRoundTripperOpts{
			RequestType: opts.RequestType,
			Collector:   opts.Collector,
		})
	}

	authProvider := opts.AuthProvider
	if authProvider == nil && cfg.Auth.Token != "" {
		authProvider = StaticTokenProvider(cfg.Auth.Token)
	}
	if authProvider != nil {
		delegate = NewAuthBearerRoundTripper(delegate, authProvider)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = cfg.UserAgent
	}
	if userAgent == "" {
		userAgent = libinfo.UserAgent()
	}
	delegate = NewUserAgentRoundTripper(delegate, userAgent)

	delegate = NewRequestIDRoundTripperWithOpts(delegate, RequestIDRoundTripperOpts{
		RequestIDProvider: opts.RequestIDProvider,
	})

	return &http.Client{Transport: delegate, Timeout: cfg.Timeout}, nil
}

// MustWithOpts creates an HTTP client according to the configuration and options
// and panics if any error occurs.
func MustWithOpts(cfg *Config, opts Opts) *http.Client {
	client, err := NewWithOpts(cfg, opts)
	if err != nil {
		panic(err)
	}
	return client
}
