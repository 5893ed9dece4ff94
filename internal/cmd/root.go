/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package cmd implements the crptapi command line interface.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath  string
	metricsAddr string
}

// NewRootCommand creates the crptapi command with all subcommands.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "crptapi",
		Short: "Rate-limited client of the CRPT document registry",
		Long: `crptapi submits documents to the CRPT registry ("Chestny ZNAK").

All submissions made by one process share a rate gate: at most rateLimit.limit documents
are sent per rateLimit.window, the rest wait for the next window.

Configuration is read from the --config file (YAML or JSON) and CRPTAPI_* environment
variables (e.g. CRPTAPI_REGISTRY_HTTP_AUTH_TOKEN).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address while the command runs")

	root.AddCommand(
		newSubmitCommand(flags),
		newBatchCommand(flags),
		newWatchCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
