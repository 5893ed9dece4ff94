/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/crpt-tools/crptapi/rategate"
)

const maxErrorBodyLen = 512

// ResponseError is returned when the registry responds with a non-2xx status.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen]
	}
	return fmt.Sprintf("registry responded with status %d: %s", e.StatusCode, body)
}

// RequestError is returned when a document cannot be decoded or a submission request cannot be built from it.
// Repeating the submission gives the same result, so it is not retryable.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRetryable tells whether a failed submission attempt may be repeated.
// Transport failures, 429 and 5xx responses are retryable.
// Cancellation, invalid documents, malformed requests and other 4xx responses are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var cancelErr *rategate.CancellationError
	if errors.As(err, &cancelErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return false
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return false
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusTooManyRequests || respErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
