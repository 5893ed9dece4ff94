/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/log"
)

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()
	recorder.With(log.String("doc_type", "LP_INTRODUCE_GOODS")).Warn("submission failed", log.Int("status", 503))
	recorder.Info("document submitted")

	require.Len(t, recorder.Entries(), 2)

	_, found := recorder.FindEntry("unknown")
	require.False(t, found)

	entry, found := recorder.FindEntry("submission failed")
	require.True(t, found)
	require.Equal(t, log.LevelWarn, entry.Level)

	status, found := entry.FindField("status")
	require.True(t, found)
	require.Equal(t, int64(503), status.Int)

	docType, found := entry.FindField("doc_type")
	require.True(t, found)
	require.Equal(t, "LP_INTRODUCE_GOODS", string(docType.Bytes))

	recorder.WithLevel(log.LevelError).Info("dropped")
	require.Empty(t, recorder.FindAllEntries("dropped"))

	recorder.Reset()
	require.Empty(t, recorder.Entries())
}
