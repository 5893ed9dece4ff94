/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crpt-tools/crptapi/internal/libinfo"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "crptapi %s (User-Agent: %s)\n", libinfo.GetVersion(), libinfo.UserAgent())
			return err
		},
	}
}
