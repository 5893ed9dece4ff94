/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vasayxtx/go-glob"
	"go.uber.org/atomic"

	"github.com/crpt-tools/crptapi/crpt"
)

const defaultIncludePattern = "*.json"

type documentFile struct {
	Path string
	Data []byte
}

type submissionResult struct {
	Path     string
	Response *crpt.Response
	Err      error
}

type submissionStats struct {
	Submitted atomic.Int32
	Failed    atomic.Int32
}

// listDocuments returns regular files of the directory whose names match the glob pattern, sorted by name.
func listDocuments(dir, include string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents directory: %w", err)
	}
	match := glob.Compile(include)
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !match(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// submitDocuments submits documents using up to workers goroutines.
// All of them share the client's rate gate, so more workers than the gate limit only wait longer.
// Results keep the order of docs.
func submitDocuments(
	ctx context.Context, client *crpt.Client, docs []documentFile, signature string, workers int, stats *submissionStats,
) []submissionResult {
	results := make([]submissionResult, len(docs))
	if workers > len(docs) {
		workers = len(docs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				resp, err := client.CreateDocumentFromJSON(ctx, docs[idx].Data, signature)
				results[idx] = submissionResult{Path: docs[idx].Path, Response: resp, Err: err}
				if err != nil {
					stats.Failed.Inc()
					continue
				}
				stats.Submitted.Inc()
			}
		}()
	}

	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
