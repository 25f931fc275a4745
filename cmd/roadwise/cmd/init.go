package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config template",
		Long: `Write an annotated configuration template to
~/.roadwise/config.yaml (or the path given with --config).

The template documents every setting with its default; edit it and
set generation.api_key (or the XAI_API_KEY environment variable) to
enable model-backed answers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	path := configPath
	if path == "" {
		path = config.UserConfigPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config path, pass --config")
	}

	if force {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	if err := config.WriteTemplate(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote config template to %s\n", path)
	return nil
}
