package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/log"
	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/release"
	"github.com/release-ai/release-ai/internal/ui"
	ver "github.com/release-ai/release-ai/internal/version"
)

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "notes <version>",
		Short:   "Generate release notes for a version",
		GroupID: GroupAI,
		Args:    cobra.ExactArgs(1),
		Long: `Generate Markdown release notes for a version.

Collects the commits since the last release and asks the AI for notes.
When AI is disabled or unavailable, a plain changelog grouped by commit
type is printed instead.`,
		Example: `  release-ai notes 2.1.0
  release-ai notes 2.1.0 > RELEASE_NOTES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			logger := log.FromContext(ctx)

			v, err := ver.Parse(args[0])
			if err != nil {
				return err
			}

			_, commits, err := release.CommitsSinceLastRelease(ctx, cfg.ProjectRoot, cfg.DevelopBranch, "")
			if err != nil {
				return err
			}
			if len(commits) == 0 {
				return fmt.Errorf("no commits found since the last release")
			}

			if aiEnabled() {
				sp := ui.NewSpinner("generating release notes")
				notes, aiErr := newAIClient().ReleaseNotes(ctx, v.String(), git.Subjects(commits))
				sp.Stop()
				if aiErr == nil {
					out.Block(notes)
					return nil
				}
				logger.Printf("warning: AI unavailable (%v), using changelog\n", aiErr)
			}

			out.Block(release.PlainChangelog(v.String(), commits))
			return nil
		},
	}
}
