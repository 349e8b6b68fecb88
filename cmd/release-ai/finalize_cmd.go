package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/log"
	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/release"
	"github.com/release-ai/release-ai/internal/ui"
	"github.com/release-ai/release-ai/internal/ui/styles"
)

func newFinalizeCmd() *cobra.Command {
	var noNotes bool

	cmd := &cobra.Command{
		Use:     "finalize",
		Short:   "Tag the release and clean up",
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		Long: `Finalize the merged release.

Creates the annotated version tag on the main branch, pushes it, creates
the GitHub release when gh is available, merges the release branch back
into the development branch, and deletes the release branch.

Release notes come from the AI when enabled, otherwise from a plain
changelog built from the commits since the last release.`,
		Example: `  release-ai finalize
  release-ai finalize --no-notes  # Skip note generation entirely`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			wf := release.NewWorkflow(*cfg)

			var notes string
			if !noNotes {
				raw, err := wf.State.Get(release.StateVersion)
				if err != nil {
					return err
				}
				if raw == "" {
					return fmt.Errorf("no release in progress (run 'release-ai start' first)")
				}
				notes = buildNotes(ctx, raw)
			}

			v, err := wf.Finalize(ctx, notes)
			if err != nil {
				return err
			}

			out.Println(styles.Ok(fmt.Sprintf("release %s finalized and tagged %s", v, v.Tag())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noNotes, "no-notes", false, "Skip release note generation")

	return cmd
}

// buildNotes produces release notes for the version being finalized. AI
// failures degrade to the plain changelog instead of blocking the tag.
func buildNotes(ctx context.Context, v string) string {
	logger := log.FromContext(ctx)

	_, commits, err := release.CommitsSinceLastRelease(ctx, cfg.ProjectRoot, cfg.DevelopBranch, "")
	if err != nil || len(commits) == 0 {
		return ""
	}

	if aiEnabled() {
		sp := ui.NewSpinner("generating release notes")
		notes, aiErr := newAIClient().ReleaseNotes(ctx, v, git.Subjects(commits))
		sp.Stop()
		if aiErr == nil {
			return notes
		}
		logger.Printf("warning: AI notes unavailable (%v), using changelog\n", aiErr)
	}

	return release.PlainChangelog(v, commits)
}
