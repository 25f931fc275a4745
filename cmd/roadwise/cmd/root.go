// Package cmd provides the CLI commands for the roadwise Q&A engine.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/pkg/version"
)

// Persistent flags shared by all subcommands.
var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the roadwise CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roadwise",
		Short: "Question answering over the Ontario driver's handbook",
		Long: `Roadwise answers driving questions from the official MTO
driver's handbook using hybrid lexical retrieval.

It indexes the handbook corpus in memory (BM25 + n-gram TF-IDF),
fuses both rankings, and answers from the best-matching passages.
When an API key is configured, answers go through an external
language model.

Get started:
  roadwise init            write a config template
  roadwise ask "how fast can I drive on a 400-series highway?"`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("roadwise version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.roadwise/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.roadwise/logs/")

	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
