package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/config"
	"github.com/release-ai/release-ai/internal/log"
	"github.com/release-ai/release-ai/internal/output"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   "Show the effective configuration",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Print the effective configuration as JSON after merging environment
variables, the project file, the global file, and the defaults.`,
		Example: `  release-ai config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			logger := log.FromContext(ctx)

			encoded, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			out.Println(string(encoded))

			project := config.ProjectPath(repoRoot)
			if _, statErr := os.Stat(project); statErr == nil {
				logger.Printf("project config: %s\n", project)
			} else {
				logger.Printf("project config: %s (not present)\n", project)
			}
			if global, globalErr := config.GlobalPath(); globalErr == nil {
				if _, statErr := os.Stat(global); statErr == nil {
					logger.Printf("global config: %s\n", global)
				} else {
					logger.Printf("global config: %s (not present)\n", global)
				}
			}
			logger.Printf("environment prefix: %s\n", config.EnvPrefix)
			return nil
		},
	}
}
