/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"
)

// RequireNoErrorInChannel asserts that there is no error in buffered channel.
// An empty channel is treated as no error.
func RequireNoErrorInChannel(t require.TestingT, c <-chan error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	var err error
	select {
	case err = <-c:
	default:
	}
	require.NoError(t, err, msgAndArgs...)
}

// RequireErrorIsAny asserts that at least one of the errors in err's chain matches at least one target.
// This is a wrapper for errors.Is.
// It is handy for cancellation, where either context.Canceled or context.DeadlineExceeded is acceptable.
func RequireErrorIsAny(t require.TestingT, err error, targets []error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if isAny(err, targets) {
		return
	}
	var expectedErrTexts []string
	for _, targetErr := range targets {
		expectedErrTexts = append(expectedErrTexts, fmt.Sprintf("%q", targetErr.Error()))
	}
	require.FailNow(t, fmt.Sprintf("At least one target error should be in err chain:\n"+
		"expected: [%s]\n"+
		"in chain: %s", strings.Join(expectedErrTexts, "; "), buildErrorChainString(err),
	), msgAndArgs...)
}

func isAny(err error, targets []error) bool {
	for _, targetErr := range targets {
		if errors.Is(err, targetErr) {
			return true
		}
	}
	return false
}

func buildErrorChainString(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%q", err.Error()))
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		sb.WriteString(fmt.Sprintf("\n\t%q", e.Error()))
	}
	return sb.String()
}
