/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitListeningServer(t *testing.T) {
	addr := GetLocalAddrWithFreeTCPPort()
	require.Error(t, WaitListeningServer(addr, time.Millisecond*50))

	listener, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	require.NoError(t, WaitListeningServer(addr, time.Second))
}
