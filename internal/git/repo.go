package git

import (
	"context"
	"fmt"
	"strings"
)

// RepoRoot returns the top-level directory of the repository containing path.
func RepoRoot(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetCurrentBranch returns the current branch name.
// Returns "(detached)" for detached HEAD state.
func GetCurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "(detached)", nil
	}
	return branch, nil
}

// IsDirty returns true if the worktree has uncommitted changes or untracked files.
func IsDirty(ctx context.Context, path string) bool {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false // Treat error as clean (safe default)
	}
	return strings.TrimSpace(string(output)) != ""
}

// HeadHash returns the full commit hash for HEAD.
func HeadHash(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RefExists checks whether a ref (branch, tag, or hash) resolves.
func RefExists(ctx context.Context, path, ref string) bool {
	err := runGit(ctx, path, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	return err == nil
}

// HasRemote reports whether the repository has an origin remote configured.
func HasRemote(ctx context.Context, path string) bool {
	err := runGit(ctx, path, "remote", "get-url", "origin")
	return err == nil
}
