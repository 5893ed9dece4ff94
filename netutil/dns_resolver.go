/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package netutil contains network helpers for the registry HTTP client.
package netutil

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/atomic"
)

// NewCustomDNSResolver creates a resolver that sends DNS queries over UDP to the given servers
// ("host:port") in round-robin order. It is used when the registry host must be resolved by
// a dedicated DNS server instead of the system one.
//
// Example of usage with an HTTP transport:
//
//	resolver, err := netutil.NewCustomDNSResolver([]string{"10.0.0.1:53"}, 5*time.Second)
//	if err != nil {
//		return err
//	}
//	transport.DialContext = (&net.Dialer{Resolver: resolver}).DialContext
func NewCustomDNSResolver(addrs []string, timeout time.Duration) (*net.Resolver, error) {
	if len(addrs) == 0 {
		return nil, errors.New("at least one DNS server address is required")
	}
	for _, addr := range addrs {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return nil, err
		}
	}
	addrs = append([]string(nil), addrs...)

	var idx atomic.Uint32
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			d := net.Dialer{Timeout: timeout}
			addr := addrs[int(idx.Inc()-1)%len(addrs)]
			return d.DialContext(ctx, "udp", addr)
		},
	}, nil
}
