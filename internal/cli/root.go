// Package cli implements the automind command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/automind-ai/automind/config"
)

type configLoader func() (*config.Config, error)

// NewRootCommand builds the automind command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "automind",
		Short: "Question answering over local documents",
		Long: `automind answers questions about the documents in a data directory.
Every question runs as a plan of dependent tasks: list, load, chunk,
index, retrieve and generate, optionally alongside a web search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	load := func() (*config.Config, error) {
		return config.Load(cfgFile)
	}

	root.AddCommand(
		newAskCommand(load),
		newPlanCommand(load),
		newRunsCommand(load),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
