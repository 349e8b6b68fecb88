package git

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	pushAttempts = 3
	pushPause    = 2 * time.Second
)

// Checkout switches to an existing branch.
func Checkout(ctx context.Context, dir, branch string) error {
	if err := runGit(ctx, dir, "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %v", branch, err)
	}
	return nil
}

// CreateBranch creates a new branch from base and switches to it.
func CreateBranch(ctx context.Context, dir, branch, base string) error {
	if err := runGit(ctx, dir, "checkout", "-b", branch, base); err != nil {
		return fmt.Errorf("failed to create branch %s from %s: %v", branch, base, err)
	}
	return nil
}

// Pull pulls the current branch from origin.
func Pull(ctx context.Context, dir string) error {
	if err := runGit(ctx, dir, "pull", "--ff-only"); err != nil {
		return fmt.Errorf("failed to pull: %v", err)
	}
	return nil
}

// Push pushes a branch to origin, retrying up to three times with a fixed
// two-second pause. Push is the only git operation that gets retries:
// transient remote failures are common, and a re-push is safe.
func Push(ctx context.Context, dir, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, "origin", branch)

	var lastErr error
	for attempt := 1; attempt <= pushAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(pushPause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = runGit(ctx, dir, args...); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to push %s after %d attempts: %v", branch, pushAttempts, lastErr)
}

// LocalBranchExists checks if a local branch exists.
func LocalBranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// RemoteBranchExists checks if a remote-tracking branch exists.
func RemoteBranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "rev-parse", "--verify", "--quiet", "refs/remotes/origin/"+branch) == nil
}

// ListBranches returns local branch names.
func ListBranches(ctx context.Context, dir string) ([]string, error) {
	output, err := outputGit(ctx, dir, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %v", err)
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// DeleteLocalBranch deletes a local branch.
func DeleteLocalBranch(ctx context.Context, dir, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, dir, "branch", flag, branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %v", branch, err)
	}
	return nil
}

// DeleteRemoteBranch deletes a branch on origin.
func DeleteRemoteBranch(ctx context.Context, dir, branch string) error {
	if err := runGit(ctx, dir, "push", "origin", "--delete", branch); err != nil {
		return fmt.Errorf("failed to delete remote branch %s: %v", branch, err)
	}
	return nil
}

// CherryPick applies a commit onto the current branch.
func CherryPick(ctx context.Context, dir, hash string) error {
	if err := runGit(ctx, dir, "cherry-pick", hash); err != nil {
		return fmt.Errorf("failed to cherry-pick %s: %v", hash, err)
	}
	return nil
}

// Merge merges branch into the current branch with an explicit conflict
// strategy option ("theirs" or "ours") and a no-ff merge commit.
func Merge(ctx context.Context, dir, branch, strategy, message string) error {
	args := []string{"merge", "--no-ff"}
	if strategy != "" {
		args = append(args, "-X", strategy)
	}
	args = append(args, "-m", message, branch)
	if err := runGit(ctx, dir, args...); err != nil {
		return fmt.Errorf("failed to merge %s: %v", branch, err)
	}
	return nil
}

// CommitFiles stages the given paths and creates a commit.
func CommitFiles(ctx context.Context, dir, message string, paths ...string) error {
	addArgs := append([]string{"add", "--"}, paths...)
	if err := runGit(ctx, dir, addArgs...); err != nil {
		return fmt.Errorf("failed to stage files: %v", err)
	}
	if err := runGit(ctx, dir, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %v", err)
	}
	return nil
}

// Fetch fetches refs and tags from origin.
func Fetch(ctx context.Context, dir string) error {
	if err := runGit(ctx, dir, "fetch", "origin", "--tags", "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch origin: %v", err)
	}
	return nil
}
