/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/crpt-tools/crptapi/crpt"
	"github.com/crpt-tools/crptapi/internal/lrucache"
	"github.com/crpt-tools/crptapi/internal/service"
	"github.com/crpt-tools/crptapi/log"
)

const (
	defaultWatchInterval    = 10 * time.Second
	defaultWatchCacheSize   = 10000
	defaultWatchRejectedTTL = time.Hour
)

type documentKey [sha256.Size]byte

// directoryWatcher submits documents that appear in a directory.
// A document is identified by its content, so a changed file is submitted again.
// Documents the registry or the client rejected for good are skipped for rejectedTTL.
type directoryWatcher struct {
	client      *crpt.Client
	dir         string
	include     string
	signature   string
	workers     int
	seen        *lrucache.LRUCache[documentKey, string]
	rejectedTTL time.Duration
	stats       *submissionStats
	logger      log.FieldLogger
}

// Run scans the directory once and submits the documents not submitted yet.
func (w *directoryWatcher) Run(ctx context.Context) error {
	paths, err := listDocuments(w.dir, w.include)
	if err != nil {
		return err
	}

	var docs []documentFile
	var keys []documentKey
	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			w.logger.Warn("skip unreadable document", log.String("path", path), log.Error(readErr))
			continue
		}
		key := documentKey(sha256.Sum256(data))
		if _, found := w.seen.Get(key); found {
			continue
		}
		docs = append(docs, documentFile{Path: path, Data: data})
		keys = append(keys, key)
	}
	if len(docs) == 0 {
		return nil
	}

	w.logger.Info("submitting new documents", log.Int("count", len(docs)))
	for i, r := range submitDocuments(ctx, w.client, docs, w.signature, w.workers, w.stats) {
		if r.Err != nil {
			if isPermanentRejection(r.Err) {
				w.seen.AddWithTTL(keys[i], r.Path, w.rejectedTTL)
				w.logger.Error("document is rejected", log.String("path", r.Path), log.Error(r.Err),
					log.Duration("skipped_for", w.rejectedTTL))
				continue
			}
			// Retried on the next scan.
			w.logger.Error("document is not submitted", log.String("path", r.Path), log.Error(r.Err))
			continue
		}
		w.seen.Add(keys[i], r.Path)
		w.logger.Info("document is submitted", log.String("path", r.Path),
			log.String("request_id", r.Response.RequestID), log.Int("attempts", r.Response.Attempts))
	}
	return nil
}

// isPermanentRejection tells whether submitting the same content again would fail the same way.
// Interrupted submissions are not rejections.
func isPermanentRejection(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !crpt.IsRetryable(err)
}

func newWatchCommand(flags *globalFlags) *cobra.Command {
	var dir, include, signature string
	var workers, cacheSize int
	var interval, cacheTTL, rejectedTTL time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Submit documents as they appear in a directory",
		Long: `Scan the directory every --interval and submit documents that were not submitted yet.
Submitted documents are remembered by content in memory (up to --cache-size documents),
so a file is submitted again after a restart or when it changes. Documents that are invalid
or rejected by the registry with a non-retryable status are skipped for --rejected-ttl.

The command runs until it is interrupted (SIGINT or SIGTERM).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return errors.New("interval must be positive")
			}
			if workers < 0 {
				return errors.New("workers cannot be negative")
			}
			if rejectedTTL <= 0 {
				return errors.New("rejected-ttl must be positive")
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			if workers == 0 {
				workers = a.cfg.Registry.RateLimit.Limit
			}

			cacheMetrics := lrucache.NewPrometheusMetrics(lrucache.PrometheusMetricsOpts{
				Namespace:   metricsNamespace,
				ConstLabels: prometheus.Labels{"cache": "submitted_documents"},
			})
			cacheMetrics.MustRegisterIn(a.registry)
			seen, err := lrucache.NewWithOpts[documentKey, string](cacheSize, lrucache.Opts{
				DefaultTTL:       cacheTTL,
				MetricsCollector: cacheMetrics,
			})
			if err != nil {
				return fmt.Errorf("create submitted documents cache: %w", err)
			}

			logger := a.logger.With(log.String("dir", dir))
			watcher := &directoryWatcher{
				client:      a.client,
				dir:         dir,
				include:     include,
				signature:   signature,
				workers:     workers,
				seen:        seen,
				rejectedTTL: rejectedTTL,
				stats:       &submissionStats{},
				logger:      logger,
			}

			units := []service.Unit{service.NewWorkerUnit(service.NewPeriodicWorker(watcher, interval, logger))}
			if a.metricsServer != nil {
				units = append(units, a.metricsServer)
			}
			err = service.New(logger, service.NewCompositeUnit(units...)).Run(cmd.Context())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d submitted, %d failed\n",
				watcher.stats.Submitted.Load(), watcher.stats.Failed.Load())
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory with documents")
	cmd.Flags().StringVar(&include, "include", defaultIncludePattern, "glob pattern of document file names")
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "signature of every document")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent submissions (the rate gate limit by default)")
	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "pause between directory scans")
	cmd.Flags().IntVar(&cacheSize, "cache-size", defaultWatchCacheSize, "number of submitted documents to remember")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 0, "how long a submitted document is remembered (0 means forever)")
	cmd.Flags().DurationVar(&rejectedTTL, "rejected-ttl", defaultWatchRejectedTTL,
		"how long a rejected document is skipped before it is submitted again")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
