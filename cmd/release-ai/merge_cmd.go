package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/release"
	"github.com/release-ai/release-ai/internal/ui/styles"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "merge",
		Short:   "Merge the release branch into the main branch",
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		Long: `Merge the in-progress release branch into the main branch.

Uses the configured conflict strategy and pushes the main branch when a
remote is configured.`,
		Example: `  release-ai merge`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			wf := release.NewWorkflow(*cfg)
			v, err := wf.Merge(ctx)
			if err != nil {
				return err
			}

			out.Println(styles.Ok(fmt.Sprintf("release %s merged into %s", v, cfg.MainBranch)))
			out.Println("next: release-ai finalize")
			return nil
		},
	}
}
