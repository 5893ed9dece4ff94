/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/log"
	"github.com/crpt-tools/crptapi/log/logtest"
)

func TestMaskingLogger(t *testing.T) {
	recorder := logtest.NewRecorder()
	logger := log.NewMaskingLogger(recorder, log.NewMasker(log.DefaultMaskingRules))

	requireSingleEntry := func(wantText string, wantLevel log.Level, wantFields ...log.Field) {
		t.Helper()
		entries := recorder.Entries()
		require.Len(t, entries, 1)
		require.Equal(t, wantText, entries[0].Text)
		require.Equal(t, wantLevel, entries[0].Level)
		require.ElementsMatch(t, wantFields, entries[0].Fields)
		recorder.Reset()
	}

	logger.Error("token=abc", log.String("query", "token=abc&x=1"), log.Error(errors.New("dial: token=abc")))
	requireSingleEntry("token=***", log.LevelError,
		log.String("query", "token=***&x=1"), log.Error(errors.New("dial: token=***")))

	logger.Warn(`{"signature":"c2ln"}`)
	requireSingleEntry(`{"signature": "***"}`, log.LevelWarn)

	logger.Infof("token=%d", 42)
	requireSingleEntry("token=***", log.LevelInfo)

	logger.Debugf("plain %s", "message")
	requireSingleEntry("plain message", log.LevelDebug)

	logger.With(log.String("auth", "token=abc")).Info("with fields")
	requireSingleEntry("with fields", log.LevelInfo, log.String("auth", "token=***"))

	logger.WithLevel(log.LevelWarn).Info("dropped")
	require.Empty(t, recorder.Entries())
}

type verboseErr struct{ msg string }

func (e verboseErr) Error() string { return e.msg }

func (e verboseErr) Format(f fmt.State, _ rune) { _, _ = fmt.Fprintf(f, "%s (verbose)", e.msg) }

func TestMaskingLogger_VerboseError(t *testing.T) {
	recorder := logtest.NewRecorder()
	logger := log.NewMaskingLogger(recorder, log.NewMasker(log.DefaultMaskingRules))

	logger.Error("failed", log.Error(verboseErr{"access_token=secret"}))

	entry, found := recorder.FindEntry("failed")
	require.True(t, found)
	field, found := entry.FindField("error")
	require.True(t, found)
	err, ok := field.Any.(error)
	require.True(t, ok)
	require.Equal(t, "access_token=***", err.Error())
	require.Equal(t, "access_token=*** (verbose)", fmt.Sprintf("%+v", err))
}
