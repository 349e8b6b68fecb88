package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/config"
	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/ui/styles"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Write a project configuration file",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Write a ` + config.ProjectConfigName + ` with the default settings into
the project root. Refuses to overwrite an existing file unless --force
is given.`,
		Example: `  release-ai init
  release-ai init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			path, err := config.Init(repoRoot, force)
			if err != nil {
				return err
			}
			out.Println(styles.Ok(fmt.Sprintf("wrote %s", path)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}
