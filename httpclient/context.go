/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"

	"github.com/rs/xid"

	"github.com/crpt-tools/crptapi/log"
)

type ctxKey int

const (
	ctxKeyRequestType ctxKey = iota
	ctxKeyRequestID
	ctxKeyLogger
)

func getStringFromContext(ctx context.Context, key ctxKey) string {
	value := ctx.Value(key)
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// NewContextWithRequestType creates a new context with request type.
func NewContextWithRequestType(ctx context.Context, requestType string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestType, requestType)
}

// GetRequestTypeFromContext extracts request type from the context.
func GetRequestTypeFromContext(ctx context.Context) string {
	return getStringFromContext(ctx, ctxKeyRequestType)
}

// NewContextWithRequestID creates a new context with request ID.
// All attempts of a single document submission share it.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// GetRequestIDFromContext extracts request ID from the context.
func GetRequestIDFromContext(ctx context.Context) string {
	return getStringFromContext(ctx, ctxKeyRequestID)
}

// NewRequestID generates a new globally unique request ID.
func NewRequestID() string {
	return xid.New().String()
}

// NewContextWithLogger creates a new context with logger.
func NewContextWithLogger(ctx context.Context, logger log.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// GetLoggerFromContext extracts logger from the context. Nil is returned if there is no logger.
func GetLoggerFromContext(ctx context.Context) log.FieldLogger {
	value := ctx.Value(ctxKeyLogger)
	if value == nil {
		return nil
	}
	if logger, ok := value.(log.FieldLogger); ok {
		return logger
	}
	return nil
}
