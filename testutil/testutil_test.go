/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import "fmt"

// failureRecorder is a require.TestingT that records failures instead of stopping the test.
type failureRecorder struct {
	failed   bool
	messages []string
}

func (r *failureRecorder) FailNow() {
	r.failed = true
}

func (r *failureRecorder) Errorf(format string, args ...interface{}) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}
