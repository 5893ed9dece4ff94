/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package rategate

import (
	"fmt"
	"time"
)

// ConfigurationError is returned by constructors when the limit or the window is not positive.
type ConfigurationError struct {
	Limit  int
	Window time.Duration
}

func (e *ConfigurationError) Error() string {
	if e.Limit <= 0 {
		return fmt.Sprintf("rate gate limit must be positive, got %d", e.Limit)
	}
	return fmt.Sprintf("rate gate window must be positive, got %s", e.Window)
}

// CancellationError is returned by RateGate.Acquire when the context is done before admission.
// The cancelled call does not consume a slot.
type CancellationError struct {
	Inner error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("wait for rate gate admission: %s", e.Inner.Error())
}

// Unwrap returns the context error.
func (e *CancellationError) Unwrap() error {
	return e.Inner
}
