/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const detailsMaxWidth = 60

func newBatchCommand(flags *globalFlags) *cobra.Command {
	var dir, include, signature string
	var workers int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Submit every document of a directory",
		Long: `Submit every document of a directory whose file name matches the --include pattern
and print a summary table. Documents are submitted concurrently through one rate gate.

The command fails if any document is not submitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workers < 0 {
				return errors.New("workers cannot be negative")
			}
			paths, err := listDocuments(dir, include)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no documents match %q in %s", include, dir)
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			if workers == 0 {
				workers = a.cfg.Registry.RateLimit.Limit
			}

			var results []submissionResult
			stats := &submissionStats{}
			err = a.run(cmd.Context(), func(ctx context.Context) error {
				docs, readResults := readDocumentFiles(paths)
				results = append(readResults, submitDocuments(ctx, a.client, docs, signature, workers, stats)...)
				stats.Failed.Add(int32(len(readResults))) //nolint:gosec // file count is reasonable
				return nil
			})
			if err != nil {
				return err
			}

			renderResults(cmd.OutOrStdout(), results, stats)
			if failed := stats.Failed.Load(); failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory with documents")
	cmd.Flags().StringVar(&include, "include", defaultIncludePattern, "glob pattern of document file names")
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "signature of every document")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent submissions (the rate gate limit by default)")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

// readDocumentFiles reads the files. Unreadable files are reported as failed results.
func readDocumentFiles(paths []string) ([]documentFile, []submissionResult) {
	docs := make([]documentFile, 0, len(paths))
	var failed []submissionResult
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			failed = append(failed, submissionResult{Path: path, Err: fmt.Errorf("read document: %w", err)})
			continue
		}
		docs = append(docs, documentFile{Path: path, Data: data})
	}
	return docs, failed
}

func renderResults(w io.Writer, results []submissionResult, stats *submissionStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"File", "Status", "Attempts", "Request ID", "Details"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Details", WidthMax: detailsMaxWidth}})

	for _, r := range results {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			t.AppendRow(table.Row{name, "failed", "", "", r.Err.Error()})
			continue
		}
		t.AppendRow(table.Row{
			name, "submitted", strconv.Itoa(r.Response.Attempts), r.Response.RequestID, string(r.Response.Body),
		})
	}

	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d submitted", stats.Submitted.Load()),
		"",
		"",
		fmt.Sprintf("%d failed", stats.Failed.Load()),
	})
	t.Render()
}
