package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/release"
	"github.com/release-ai/release-ai/internal/ui/styles"
)

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rollback",
		Short:   "Restore version files and abandon the release",
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		Long: `Abandon the in-progress release.

Restores every version file that still has a backup, deletes the release
branch locally and on the remote, and clears the release state. Running
it with nothing to roll back is a no-op.`,
		Example: `  release-ai rollback`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			wf := release.NewWorkflow(*cfg)
			restored, err := wf.Rollback(ctx)
			if err != nil {
				return err
			}

			if restored == 0 {
				out.Println("nothing to roll back")
				return nil
			}
			out.Println(styles.Ok(fmt.Sprintf("restored %d file(s) from backup", restored)))
			return nil
		},
	}
}
