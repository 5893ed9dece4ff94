/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/crpt"
	"github.com/crpt-tools/crptapi/internal/lrucache"
	"github.com/crpt-tools/crptapi/log"
	"github.com/crpt-tools/crptapi/rategate"
)

func TestWatchCommand(t *testing.T) {
	reg, server := newTestRegistry(t)
	cfgPath := writeTestConfig(t, server.URL, 10)
	dir := t.TempDir()
	writeFile(t, dir, "a.json", testDocument)
	writeFile(t, dir, "b.json", `{"doc_type":"LP_INTRODUCE_GOODS","participant_inn":"770123456789"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := executeCommand(ctx, "", "--config", cfgPath,
			"watch", "--dir", dir, "--interval", "20ms", "-s", testSignature)
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool { return reg.Count() == 2 }, time.Second*5, time.Millisecond*10)

	writeFile(t, dir, "c.json", `{"doc_type":"LP_INTRODUCE_GOODS","participant_inn":"7707654321"}`)
	require.Eventually(t, func() bool { return reg.Count() == 3 }, time.Second*5, time.Millisecond*10)

	// Already submitted documents are not sent again.
	time.Sleep(time.Millisecond * 100)
	require.Equal(t, 3, reg.Count())

	cancel()
	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Equal(t, "3 submitted, 0 failed\n", res.out)
	case <-time.After(time.Second * 5):
		t.Fatal("watch command did not stop")
	}
}

func TestWatchCommand_InvalidInterval(t *testing.T) {
	_, err := executeCommand(context.Background(), "", "watch", "--interval", "0s", "-s", testSignature)
	require.EqualError(t, err, "interval must be positive")
}

func TestDirectoryWatcher_SkipsRejectedDocuments(t *testing.T) {
	reg, server := newTestRegistry(t)
	submitter, err := crpt.NewHTTPSubmitter(server.Client(), server.URL)
	require.NoError(t, err)
	seen, err := lrucache.New[documentKey, string](100)
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "valid.json", testDocument)
	writeFile(t, dir, "rejected.json", rejectedDocument)
	writeFile(t, dir, "invalid.json", `{"doc_id":"1"}`)

	watcher := &directoryWatcher{
		client:      crpt.NewClient(rategate.MustNewRateGate(time.Second, 10), submitter),
		dir:         dir,
		include:     defaultIncludePattern,
		signature:   testSignature,
		workers:     2,
		seen:        seen,
		rejectedTTL: time.Hour,
		stats:       &submissionStats{},
		logger:      log.NewDisabledLogger(),
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, watcher.Run(context.Background()))
	}

	// The valid and the rejected documents reach the registry once, the invalid one never.
	require.Equal(t, 2, reg.Count())
	require.Equal(t, int32(1), watcher.stats.Submitted.Load())
	require.Equal(t, int32(2), watcher.stats.Failed.Load())
	require.Equal(t, 3, seen.Len())
}

func TestIsPermanentRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bad request", err: &crpt.ResponseError{StatusCode: http.StatusBadRequest}, want: true},
		{name: "invalid document", err: &crpt.ValidationError{}, want: true},
		{name: "malformed json", err: &crpt.RequestError{Err: errors.New("decode document: unexpected EOF")}, want: true},
		{name: "service unavailable", err: &crpt.ResponseError{StatusCode: http.StatusServiceUnavailable}},
		{name: "transport", err: errors.New("connection refused")},
		{name: "interrupted wait", err: &rategate.CancellationError{Inner: context.Canceled}},
		{name: "interrupted request", err: fmt.Errorf("send create document request: %w", context.DeadlineExceeded)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isPermanentRejection(tt.err))
		})
	}
}

func TestWatchCommand_InvalidRejectedTTL(t *testing.T) {
	_, err := executeCommand(context.Background(), "", "watch", "--rejected-ttl", "0s", "-s", testSignature)
	require.EqualError(t, err, "rejected-ttl must be positive")
}
