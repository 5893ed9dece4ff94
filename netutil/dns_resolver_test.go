/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package netutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewCustomDNSResolver(t *testing.T) {
	t.Run("invalid addresses", func(t *testing.T) {
		_, err := NewCustomDNSResolver(nil, time.Second)
		require.EqualError(t, err, "at least one DNS server address is required")

		_, err = NewCustomDNSResolver([]string{"10.0.0.1"}, time.Second)
		require.Error(t, err)
	})

	t.Run("queries go to the servers in turn", func(t *testing.T) {
		var addrs []string
		for i := 0; i < 2; i++ {
			conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
			require.NoError(t, err)
			defer func() { _ = conn.Close() }()
			addrs = append(addrs, conn.LocalAddr().String())
		}

		resolver, err := NewCustomDNSResolver(addrs, time.Second)
		require.NoError(t, err)
		for i := range addrs {
			conn, dialErr := resolver.Dial(context.Background(), "udp", "ignored:53")
			require.NoError(t, dialErr)
			require.Equal(t, addrs[i], conn.RemoteAddr().String())
			require.NoError(t, conn.Close())
		}
	})
}
