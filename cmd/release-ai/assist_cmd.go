package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/ui"
)

func newAssistCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "assist <question>",
		Short:   "Ask the AI a question about the repository",
		GroupID: GroupAI,
		Args:    cobra.MinimumNArgs(1),
		Long: `Ask a one-shot question with repository context.

The current branch and recent commit subjects are sent along with the
question. There is no conversation history; each invocation stands
alone.`,
		Example: `  release-ai assist "what changed since the last release?"
  release-ai assist is it safe to cut a major release now`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if !aiEnabled() {
				return fmt.Errorf("AI features are disabled (unset %s)", "RELEASE_AI_NO_AI")
			}

			question := strings.Join(args, " ")

			var b strings.Builder
			if branch, err := git.GetCurrentBranch(ctx, cfg.ProjectRoot); err == nil {
				fmt.Fprintf(&b, "Current branch: %s\n", branch)
			}
			if commits, err := git.Log(ctx, cfg.ProjectRoot, "", "HEAD"); err == nil {
				if len(commits) > 20 {
					commits = commits[:20]
				}
				b.WriteString("Recent commits:\n")
				for _, s := range git.Subjects(commits) {
					fmt.Fprintf(&b, "- %s\n", s)
				}
			}

			sp := ui.NewSpinner("thinking")
			answer, err := newAIClient().Assist(ctx, b.String(), question)
			sp.Stop()
			if err != nil {
				return err
			}

			out.Block(answer)
			return nil
		},
	}
}
