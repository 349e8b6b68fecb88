package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/release-ai/release-ai/internal/config"
	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/github"
	"github.com/release-ai/release-ai/internal/log"
	"github.com/release-ai/release-ai/internal/state"
	"github.com/release-ai/release-ai/internal/update"
	"github.com/release-ai/release-ai/internal/version"
)

// State keys for release progress markers. A restarted invocation reads
// these back to continue a release across separate runs.
const (
	StateVersion = "release_version"
	StateBranch  = "release_branch"
	StatePhase   = "release_phase"
)

// Release phases recorded in the state file.
const (
	PhaseStarted = "started"
	PhaseMerged  = "merged"
)

// Workflow orchestrates one release lifecycle against a repository.
type Workflow struct {
	Config  config.Config
	State   *state.Store
	Updater *update.Updater
}

// NewWorkflow builds a Workflow from resolved configuration.
func NewWorkflow(cfg config.Config) *Workflow {
	return &Workflow{
		Config:  cfg,
		State:   state.New(cfg.StatePath()),
		Updater: update.New(cfg.ProjectRoot),
	}
}

// Specs converts the configured version files into updater specs.
func (w *Workflow) Specs() []update.Spec {
	specs := make([]update.Spec, 0, len(w.Config.VersionFiles))
	for _, f := range w.Config.VersionFiles {
		specs = append(specs, update.Spec{Path: f.Path, Field: f.Field})
	}
	return specs
}

// CurrentVersion reads the version from the first configured file that
// yields one, falling back to the last release tag, then to "0.0.0".
func (w *Workflow) CurrentVersion(ctx context.Context) string {
	for _, spec := range w.Specs() {
		if v, err := w.Updater.ReadVersion(spec); err == nil && version.IsValid(v) {
			return v
		}
	}
	if tag, err := ResolveLastReleaseTag(ctx, w.Config.ProjectRoot, w.Config.DevelopBranch); err == nil {
		if v, err := version.ParseTag(tag); err == nil {
			return v.String()
		}
	}
	return "0.0.0"
}

// Start creates the release branch from the development branch, applies
// the new version to every configured file, verifies the result, commits
// the bump, and records progress in the state file.
//
// A batch update failure leaves backups in place and does NOT roll back
// automatically: the operator decides via the rollback command.
func (w *Workflow) Start(ctx context.Context, v version.Version) error {
	logger := log.FromContext(ctx)
	root := w.Config.ProjectRoot

	if git.IsDirty(ctx, root) {
		return fmt.Errorf("working tree has uncommitted changes; commit or stash them first")
	}

	dev := w.Config.DevelopBranch
	if err := git.Checkout(ctx, root, dev); err != nil {
		return err
	}
	if git.HasRemote(ctx, root) && git.RemoteBranchExists(ctx, root, dev) {
		if err := git.Pull(ctx, root); err != nil {
			return err
		}
	}

	branch := w.Config.ReleaseBranchPrefix + v.String()
	if err := git.CreateBranch(ctx, root, branch, dev); err != nil {
		return err
	}

	specs := w.Specs()
	plan, err := w.Updater.UpdateAll(v.String(), specs)
	if err != nil {
		return fmt.Errorf("%w; updated files keep their backups, run 'release-ai rollback' to restore", err)
	}

	if mismatches := w.Updater.VerifyAll(ctx, v.String(), specs); len(mismatches) > 0 {
		var lines []string
		for _, m := range mismatches {
			if m.Actual == "" {
				lines = append(lines, fmt.Sprintf("%s is missing its version field", m.Spec.Path))
				continue
			}
			lines = append(lines, fmt.Sprintf("%s has %q", m.Spec.Path, m.Actual))
		}
		return fmt.Errorf("verification failed, expected %s: %s", v, strings.Join(lines, "; "))
	}

	var updated []string
	for _, f := range plan.Files {
		if f.Status == update.StatusUpdated {
			updated = append(updated, f.Spec.Path)
		}
	}
	if len(updated) > 0 {
		if err := git.CommitFiles(ctx, root, BumpMessage(v.String()), updated...); err != nil {
			return err
		}
	} else {
		logger.Println("no version files present, nothing to commit")
	}

	if git.HasRemote(ctx, root) {
		if err := git.Push(ctx, root, branch, true); err != nil {
			return err
		}
	}

	if err := w.State.Set(StateVersion, v.String()); err != nil {
		return err
	}
	if err := w.State.Set(StateBranch, branch); err != nil {
		return err
	}
	return w.State.Set(StatePhase, PhaseStarted)
}

// inProgress reads the version and branch of the release in progress.
func (w *Workflow) inProgress() (version.Version, string, error) {
	raw, err := w.State.Get(StateVersion)
	if err != nil {
		return version.Version{}, "", err
	}
	if raw == "" {
		return version.Version{}, "", fmt.Errorf("no release in progress (run 'release-ai start' first)")
	}
	v, err := version.Parse(raw)
	if err != nil {
		return version.Version{}, "", fmt.Errorf("state file holds invalid version %q: %w", raw, err)
	}
	branch, err := w.State.Get(StateBranch)
	if err != nil {
		return version.Version{}, "", err
	}
	if branch == "" {
		branch = w.Config.ReleaseBranchPrefix + v.String()
	}
	return v, branch, nil
}

// Merge merges the in-progress release branch into the main branch with
// the configured conflict strategy and pushes with bounded retry.
func (w *Workflow) Merge(ctx context.Context) (version.Version, error) {
	root := w.Config.ProjectRoot
	v, branch, err := w.inProgress()
	if err != nil {
		return version.Version{}, err
	}

	main := w.Config.MainBranch
	if err := git.Checkout(ctx, root, main); err != nil {
		return v, err
	}
	if git.HasRemote(ctx, root) && git.RemoteBranchExists(ctx, root, main) {
		if err := git.Pull(ctx, root); err != nil {
			return v, err
		}
	}
	if err := git.Merge(ctx, root, branch, w.Config.ConflictStrategy, "Merge "+branch); err != nil {
		return v, err
	}
	if git.HasRemote(ctx, root) {
		if err := git.Push(ctx, root, main, false); err != nil {
			return v, err
		}
	}
	return v, w.State.Set(StatePhase, PhaseMerged)
}

// Finalize tags the release on the main branch, pushes the tag, creates
// the GitHub release when gh and a remote are available, merges the
// release branch back into the development branch, deletes it, and clears
// the persisted state.
func (w *Workflow) Finalize(ctx context.Context, notes string) (version.Version, error) {
	logger := log.FromContext(ctx)
	root := w.Config.ProjectRoot

	v, branch, err := w.inProgress()
	if err != nil {
		return version.Version{}, err
	}

	if err := git.Checkout(ctx, root, w.Config.MainBranch); err != nil {
		return v, err
	}
	tag := v.Tag()
	if err := git.CreateTag(ctx, root, tag, "Release "+v.String()); err != nil {
		return v, err
	}

	hasRemote := git.HasRemote(ctx, root)
	if hasRemote {
		if err := git.PushTag(ctx, root, tag); err != nil {
			return v, err
		}
		if github.CheckGh() == nil {
			if err := github.CreateRelease(ctx, root, tag, tag, notes); err != nil {
				return v, err
			}
		} else {
			logger.Println("gh not found, skipping GitHub release creation")
		}
	}

	dev := w.Config.DevelopBranch
	if err := git.Checkout(ctx, root, dev); err != nil {
		return v, err
	}
	if err := git.Merge(ctx, root, branch, w.Config.ConflictStrategy, "Merge "+branch+" back into "+dev); err != nil {
		return v, err
	}
	if hasRemote {
		if err := git.Push(ctx, root, dev, false); err != nil {
			return v, err
		}
	}

	// Best-effort cleanup: a leftover release branch is an annoyance,
	// not a broken release.
	if err := git.DeleteLocalBranch(ctx, root, branch, true); err != nil {
		logger.Printf("warning: %v\n", err)
	}
	if hasRemote && git.RemoteBranchExists(ctx, root, branch) {
		if err := git.DeleteRemoteBranch(ctx, root, branch); err != nil {
			logger.Printf("warning: %v\n", err)
		}
	}

	return v, w.State.Clear()
}

// Rollback restores every configured file that still has a backup,
// removes the in-progress release branch, and clears the state file.
// Running it with nothing to roll back is a no-op, not an error.
func (w *Workflow) Rollback(ctx context.Context) (restored int, err error) {
	logger := log.FromContext(ctx)
	root := w.Config.ProjectRoot

	restored, err = w.Updater.RollbackAll(w.Specs())
	if err != nil {
		return restored, err
	}

	if branch, stateErr := w.State.Get(StateBranch); stateErr == nil && branch != "" {
		if checkoutErr := git.Checkout(ctx, root, w.Config.DevelopBranch); checkoutErr != nil {
			logger.Printf("warning: %v\n", checkoutErr)
		}
		if git.LocalBranchExists(ctx, root, branch) {
			if delErr := git.DeleteLocalBranch(ctx, root, branch, true); delErr != nil {
				logger.Printf("warning: %v\n", delErr)
			}
		}
		if git.HasRemote(ctx, root) && git.RemoteBranchExists(ctx, root, branch) {
			if delErr := git.DeleteRemoteBranch(ctx, root, branch); delErr != nil {
				logger.Printf("warning: %v\n", delErr)
			}
		}
	}

	return restored, w.State.Clear()
}
