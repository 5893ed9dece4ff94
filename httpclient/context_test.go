/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/log/logtest"
)

func TestRequestTypeContext(t *testing.T) {
	t.Run("empty request type", func(t *testing.T) {
		require.Equal(t, "", GetRequestTypeFromContext(context.Background()))
	})

	t.Run("non empty request type", func(t *testing.T) {
		const requestType = "create-document"
		ctx := NewContextWithRequestType(context.Background(), requestType)
		require.Equal(t, requestType, GetRequestTypeFromContext(ctx))
	})
}

func TestRequestIDContext(t *testing.T) {
	require.Equal(t, "", GetRequestIDFromContext(context.Background()))

	requestID := NewRequestID()
	_, err := xid.FromString(requestID)
	require.NoError(t, err)
	require.NotEqual(t, requestID, NewRequestID())

	ctx := NewContextWithRequestID(context.Background(), requestID)
	require.Equal(t, requestID, GetRequestIDFromContext(ctx))
}

func TestLoggerContext(t *testing.T) {
	require.Nil(t, GetLoggerFromContext(context.Background()))

	logger := logtest.NewRecorder()
	ctx := NewContextWithLogger(context.Background(), logger)
	require.Same(t, logger, GetLoggerFromContext(ctx))
}
