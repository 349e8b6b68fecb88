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
	ver "github.com/release-ai/release-ai/internal/version"
)

func newStartCmd() *cobra.Command {
	var auto bool
	var bump string

	cmd := &cobra.Command{
		Use:     "start [version]",
		Short:   "Start a release: branch, bump files, commit",
		GroupID: GroupRelease,
		Args:    cobra.MaximumNArgs(1),
		Long: `Start a release from the development branch.

Creates the release branch, writes the new version into every configured
version file (with per-file backups), verifies the results, commits the
bump, and pushes the branch when a remote is configured.

The version comes from the argument, from --bump applied to the current
version, or from an AI suggestion with --auto.`,
		Example: `  release-ai start 2.1.0       # Explicit version
  release-ai start --bump minor  # Bump the current version
  release-ai start --auto        # Let the AI suggest the bump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			wf := release.NewWorkflow(*cfg)

			v, err := resolveStartVersion(ctx, wf, args, auto, bump)
			if err != nil {
				return err
			}

			if err := wf.Start(ctx, v); err != nil {
				return err
			}

			out.Println(styles.Ok(fmt.Sprintf("release %s started on branch %s%s", v, cfg.ReleaseBranchPrefix, v)))
			out.Println("next: release-ai merge")
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Ask the AI to suggest the next version")
	cmd.Flags().StringVar(&bump, "bump", "", "Bump the current version (major, minor, or patch)")
	cmd.MarkFlagsMutuallyExclusive("auto", "bump")

	return cmd
}

// resolveStartVersion determines the release version from an explicit
// argument, a bump of the current version, or an AI suggestion.
func resolveStartVersion(ctx context.Context, wf *release.Workflow, args []string, auto bool, bump string) (ver.Version, error) {
	if len(args) == 1 {
		if auto || bump != "" {
			return ver.Version{}, fmt.Errorf("an explicit version cannot be combined with --auto or --bump")
		}
		return ver.Parse(args[0])
	}

	current := wf.CurrentVersion(ctx)

	if bump != "" {
		return ver.Next(current, bump)
	}

	if !auto {
		return ver.Version{}, fmt.Errorf("a version is required: pass one explicitly, or use --bump or --auto")
	}
	if !aiEnabled() {
		return ver.Version{}, fmt.Errorf("--auto requires AI features (unset %s)", "RELEASE_AI_NO_AI")
	}

	_, commits, err := release.CommitsSinceLastRelease(ctx, cfg.ProjectRoot, cfg.DevelopBranch, "")
	if err != nil {
		return ver.Version{}, err
	}
	if len(commits) == 0 {
		return ver.Version{}, fmt.Errorf("no commits found since the last release")
	}

	sp := ui.NewSpinner("asking AI for a version suggestion")
	suggestion, err := newAIClient().SuggestVersion(ctx, current, git.Subjects(commits))
	sp.Stop()
	if err != nil {
		return ver.Version{}, err
	}

	log.FromContext(ctx).Printf("AI suggests %s (%s): %s\n",
		suggestion.SuggestedVersion, suggestion.BumpType, suggestion.Reasoning)
	return ver.Parse(suggestion.SuggestedVersion)
}
