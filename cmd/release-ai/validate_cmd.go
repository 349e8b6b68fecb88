package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/ai"
	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/github"
	"github.com/release-ai/release-ai/internal/output"
	"github.com/release-ai/release-ai/internal/release"
	"github.com/release-ai/release-ai/internal/ui/styles"
	ver "github.com/release-ai/release-ai/internal/version"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Short:   "Check the environment and configuration for releasing",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Check that the repository is ready for a release.

Reports on the git repository, the gh CLI, the configured branches and
version files, the AI credential, and the commits pending since the
last release. Warnings do not fail the command; broken essentials do.`,
		Example: `  release-ai validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			failed := false
			fail := func(format string, args ...any) {
				failed = true
				out.Println(styles.Fail(fmt.Sprintf(format, args...)))
			}
			warn := func(format string, args ...any) {
				out.Println(styles.Warning(fmt.Sprintf(format, args...)))
			}
			ok := func(format string, args ...any) {
				out.Println(styles.Ok(fmt.Sprintf(format, args...)))
			}

			if git.IsInsideRepo(ctx, cfg.ProjectRoot) {
				ok("git repository at %s", cfg.ProjectRoot)
			} else {
				fail("not a git repository: %s", cfg.ProjectRoot)
			}

			if err := github.CheckGh(); err == nil {
				ok("gh CLI available")
			} else {
				warn("gh CLI not found, GitHub releases will be skipped")
			}

			for _, branch := range []string{cfg.DevelopBranch, cfg.MainBranch} {
				if git.LocalBranchExists(ctx, cfg.ProjectRoot, branch) {
					ok("branch %s exists", branch)
				} else {
					fail("branch %s not found", branch)
				}
			}

			wf := release.NewWorkflow(*cfg)
			for _, spec := range wf.Specs() {
				v, err := wf.Updater.ReadVersion(spec)
				switch {
				case err != nil:
					warn("version file %s: %v", spec.Path, err)
				case !ver.IsValid(v):
					warn("version file %s holds %q, not a semantic version", spec.Path, v)
				default:
					ok("version file %s at %s", spec.Path, v)
				}
			}

			if cfg.NoAI {
				warn("AI features disabled")
			} else if os.Getenv(ai.APIKeyEnv) == "" {
				warn("%s not set, AI commands will fail", ai.APIKeyEnv)
			} else {
				ok("AI configured with model %s", cfg.AIModel)
			}

			rng, commits, err := release.CommitsSinceLastRelease(ctx, cfg.ProjectRoot, cfg.DevelopBranch, "")
			if err != nil {
				warn("could not determine commits since last release: %v", err)
			} else {
				ok("%d commit(s) pending in range %s", len(commits), rng)
			}

			if failed {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}
