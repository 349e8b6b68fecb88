package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/log"
	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/release"
	"github.com/release-ai/release-ai/internal/ui"
	"github.com/release-ai/release-ai/internal/ui/styles"
	ver "github.com/release-ai/release-ai/internal/version"
)

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "suggest",
		Short:   "Suggest the next version from the commits since the last release",
		GroupID: GroupAI,
		Args:    cobra.NoArgs,
		Long: `Suggest the next semantic version.

Analyzes the commits since the last release. With AI enabled the model
picks the bump and explains it; otherwise a conventional-commit
heuristic decides (breaking change = major, feat = minor, else patch).`,
		Example: `  release-ai suggest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			logger := log.FromContext(ctx)

			wf := release.NewWorkflow(*cfg)
			current := wf.CurrentVersion(ctx)

			rng, commits, err := release.CommitsSinceLastRelease(ctx, cfg.ProjectRoot, cfg.DevelopBranch, "")
			if err != nil {
				return err
			}
			if len(commits) == 0 {
				return fmt.Errorf("no commits found since the last release")
			}
			logger.Printf("analyzing %d commit(s) in range %s\n", len(commits), rng)

			if aiEnabled() {
				sp := ui.NewSpinner("asking AI for a version suggestion")
				suggestion, aiErr := newAIClient().SuggestVersion(ctx, current, git.Subjects(commits))
				sp.Stop()
				if aiErr == nil {
					out.Println(styles.Ok(fmt.Sprintf("suggested version: %s (%s bump)", suggestion.SuggestedVersion, suggestion.BumpType)))
					out.Println(suggestion.Reasoning)
					for _, h := range suggestion.Highlights {
						out.Printf("  - %s\n", h)
					}
					return nil
				}
				logger.Printf("warning: AI unavailable (%v), using heuristic\n", aiErr)
			}

			bump := release.HeuristicBump(commits)
			next, err := ver.Next(current, bump)
			if err != nil {
				return err
			}
			out.Println(styles.Ok(fmt.Sprintf("suggested version: %s (%s bump)", next, bump)))
			return nil
		},
	}
}
