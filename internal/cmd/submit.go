/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinPath = "-"

func newSubmitCommand(flags *globalFlags) *cobra.Command {
	var documentPath, signature string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one document",
		Long: `Submit one document and print the registry response.

The document is a JSON file in the registry format, "-" reads it from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readDocument(cmd.InOrStdin(), documentPath)
			if err != nil {
				return err
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.run(cmd.Context(), func(ctx context.Context) error {
				resp, submitErr := a.client.CreateDocumentFromJSON(ctx, data, signature)
				if submitErr != nil {
					return fmt.Errorf("submit document: %w", submitErr)
				}
				_, submitErr = fmt.Fprintln(cmd.OutOrStdout(), string(resp.Body))
				return submitErr
			})
		},
	}
	cmd.Flags().StringVarP(&documentPath, "document", "d", "", `document file, "-" reads standard input`)
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "document signature")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func readDocument(stdin io.Reader, path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read document from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}
