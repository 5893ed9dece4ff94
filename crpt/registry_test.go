/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// fakeRegistry records create document requests and answers with queued statuses (201 when the queue is empty).
type fakeRegistry struct {
	mu         sync.Mutex
	statuses   []int
	requests   []CreateDocumentRequest
	headers    []http.Header
	receivedAt []time.Time
}

func newFakeRegistry(statuses ...int) (*fakeRegistry, *httptest.Server) {
	reg := &fakeRegistry{statuses: statuses}
	router := chi.NewRouter()
	router.Post(CreateDocumentPath, reg.createDocument)
	return reg, httptest.NewServer(router)
}

func (reg *fakeRegistry) createDocument(rw http.ResponseWriter, r *http.Request) {
	var body CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	reg.mu.Lock()
	reg.requests = append(reg.requests, body)
	reg.headers = append(reg.headers, r.Header.Clone())
	reg.receivedAt = append(reg.receivedAt, time.Now())
	n := len(reg.requests)
	status := http.StatusCreated
	if len(reg.statuses) > 0 {
		status, reg.statuses = reg.statuses[0], reg.statuses[1:]
	}
	reg.mu.Unlock()

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if status >= http.StatusBadRequest {
		_, _ = fmt.Fprintf(rw, `{"error_message":"status %d"}`, status)
		return
	}
	_, _ = fmt.Fprintf(rw, `{"value":"doc-%d"}`, n)
}

func (reg *fakeRegistry) Requests() []CreateDocumentRequest {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return append([]CreateDocumentRequest(nil), reg.requests...)
}

func (reg *fakeRegistry) Headers() []http.Header {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return append([]http.Header(nil), reg.headers...)
}

func (reg *fakeRegistry) ReceivedAt() []time.Time {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return append([]time.Time(nil), reg.receivedAt...)
}
