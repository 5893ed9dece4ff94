/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/crpt"
)

const (
	testSignature    = "c2lnbmF0dXJl"
	testDocument     = `{"doc_type":"LP_INTRODUCE_GOODS","participant_inn":"7701234567"}`
	rejectedDocType  = "REJECTED"
	rejectedDocument = `{"doc_type":"REJECTED"}`
)

// testRegistry accepts documents and rejects the ones of the REJECTED type with 400.
type testRegistry struct {
	mu       sync.Mutex
	docTypes []string
	payloads []string
}

func newTestRegistry(t *testing.T) (*testRegistry, *httptest.Server) {
	t.Helper()
	reg := &testRegistry{}
	router := chi.NewRouter()
	router.Post(crpt.CreateDocumentPath, func(rw http.ResponseWriter, r *http.Request) {
		var body crpt.CreateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		payload, err := base64.StdEncoding.DecodeString(body.ProductDocument)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}

		reg.mu.Lock()
		reg.docTypes = append(reg.docTypes, body.Type)
		reg.payloads = append(reg.payloads, string(payload))
		n := len(reg.docTypes)
		reg.mu.Unlock()

		rw.Header().Set("Content-Type", "application/json")
		if body.Type == rejectedDocType {
			rw.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(rw, `{"error_message":"unknown document type"}`)
			return
		}
		rw.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(rw, `{"value":"doc-%d"}`, n)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return reg, server
}

func (reg *testRegistry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.docTypes)
}

func (reg *testRegistry) Payloads() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return append([]string(nil), reg.payloads...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeTestConfig(t *testing.T, baseURL string, limit int) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "config.yaml", fmt.Sprintf(`
registry:
  baseURL: %s
  rateLimit:
    window: 1s
    limit: %d
  http:
    metrics:
      enabled: true
log:
  level: error
`, baseURL, limit))
}

func executeCommand(ctx context.Context, stdin string, args ...string) (string, error) {
	root := NewRootCommand()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), err
}
