package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/release-ai/release-ai/internal/cmd"
	"github.com/release-ai/release-ai/internal/git"
)

func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	gitArgs := args
	if dir != "" {
		gitArgs = append([]string{"-C", dir}, args...)
	}
	if err := cmd.RunContext(context.Background(), "", "git", gitArgs...); err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
}

// setupReleaseRepo creates a git repo with a develop branch and one commit.
func setupReleaseRepo(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks: %v", err)
	}
	repo := filepath.Join(resolved, "repo")

	mustGit(t, "", "init", "-b", "develop", repo)
	mustGit(t, repo, "config", "user.email", "test@test.com")
	mustGit(t, repo, "config", "user.name", "Test User")
	mustGit(t, repo, "config", "commit.gpgsign", "false")
	mustGit(t, repo, "config", "tag.gpgsign", "false")

	commitRepoFile(t, repo, "README.md", "# test\n", "Initial commit")
	return repo
}

func commitRepoFile(t *testing.T, repo, name, content, message string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repo, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	mustGit(t, repo, "add", name)
	mustGit(t, repo, "commit", "-m", message)
}

func TestResolveLastReleaseTag_NoHistory(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)

	_, err := ResolveLastReleaseTag(context.Background(), repo, "develop")
	if !errors.Is(err, ErrNoReleaseHistory) {
		t.Errorf("error = %v, want ErrNoReleaseHistory", err)
	}
}

func TestResolveLastReleaseTag_NearestTag(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)
	ctx := context.Background()

	mustGit(t, repo, "tag", "-a", "v1.0.0", "-m", "Release 1.0.0")
	commitRepoFile(t, repo, "a.txt", "a", "feat: later work")

	tag, err := ResolveLastReleaseTag(ctx, repo, "develop")
	if err != nil {
		t.Fatalf("ResolveLastReleaseTag() error = %v", err)
	}
	if tag != "v1.0.0" {
		t.Errorf("tag = %q, want v1.0.0", tag)
	}
}

func TestResolveLastReleaseTag_IgnoresNonVersionTags(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)
	ctx := context.Background()

	mustGit(t, repo, "tag", "-a", "v1.0.0", "-m", "Release 1.0.0")
	commitRepoFile(t, repo, "a.txt", "a", "feat: later work")
	mustGit(t, repo, "tag", "-a", "deploy-2026-08-29", "-m", "deploy marker")

	tag, err := ResolveLastReleaseTag(ctx, repo, "develop")
	if err != nil {
		t.Fatalf("ResolveLastReleaseTag() error = %v", err)
	}
	if tag != "v1.0.0" {
		t.Errorf("tag = %q, want v1.0.0 (deploy marker skipped)", tag)
	}
}

func TestResolveLastReleaseTag_BumpCommitFallback(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)
	ctx := context.Background()

	// No tag anywhere; only the bump commit marks the release.
	commitRepoFile(t, repo, "VERSION", "1.2.0\n", BumpMessage("1.2.0"))
	commitRepoFile(t, repo, "a.txt", "a", "feat: later work")

	tag, err := ResolveLastReleaseTag(ctx, repo, "develop")
	if err != nil {
		t.Fatalf("ResolveLastReleaseTag() error = %v", err)
	}
	if tag != "v1.2.0" {
		t.Errorf("tag = %q, want v1.2.0", tag)
	}
}

func TestCommitsSinceLastRelease_FirstRelease(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)
	ctx := context.Background()

	commitRepoFile(t, repo, "a.txt", "a", "feat: add a")

	rng, commits, err := CommitsSinceLastRelease(ctx, repo, "develop", "")
	if err != nil {
		t.Fatalf("CommitsSinceLastRelease() error = %v", err)
	}
	if rng.Start != "" {
		t.Errorf("Start = %q, want empty for full history", rng.Start)
	}
	if rng.End != "HEAD" {
		t.Errorf("End = %q, want HEAD", rng.End)
	}
	if len(commits) != 2 {
		t.Errorf("len(commits) = %d, want 2 (full history)", len(commits))
	}
}

func TestCommitsSinceLastRelease_FromTag(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)
	ctx := context.Background()

	mustGit(t, repo, "tag", "-a", "v1.0.0", "-m", "Release 1.0.0")
	commitRepoFile(t, repo, "a.txt", "a", "feat: add a")
	commitRepoFile(t, repo, "b.txt", "b", "fix: add b")

	rng, commits, err := CommitsSinceLastRelease(ctx, repo, "develop", "")
	if err != nil {
		t.Fatalf("CommitsSinceLastRelease() error = %v", err)
	}
	if rng.Start != "v1.0.0" {
		t.Errorf("Start = %q, want v1.0.0", rng.Start)
	}
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2", len(commits))
	}
	if commits[0].Subject != "fix: add b" || commits[1].Subject != "feat: add a" {
		t.Errorf("commits = %+v", commits)
	}
}

func TestCommitsSinceLastRelease_BumpCommitBoundary(t *testing.T) {
	t.Parallel()
	repo := setupReleaseRepo(t)
	ctx := context.Background()

	// Tag and bump commit both exist; the bump commit wins as the boundary
	// since it is the newer marker on the branch.
	mustGit(t, repo, "tag", "-a", "v1.0.0", "-m", "Release 1.0.0")
	commitRepoFile(t, repo, "VERSION", "1.0.0\n", BumpMessage("1.0.0"))
	bumpHash, err := git.HeadHash(ctx, repo)
	if err != nil {
		t.Fatal(err)
	}
	commitRepoFile(t, repo, "a.txt", "a", "feat: add a")

	rng, commits, err := CommitsSinceLastRelease(ctx, repo, "develop", "")
	if err != nil {
		t.Fatalf("CommitsSinceLastRelease() error = %v", err)
	}
	if rng.Start != bumpHash {
		t.Errorf("Start = %q, want bump commit %q", rng.Start, bumpHash)
	}
	if len(commits) != 1 || commits[0].Subject != "feat: add a" {
		t.Errorf("commits = %+v, want only the feat commit", commits)
	}
}

func TestCommitRangeString(t *testing.T) {
	t.Parallel()

	r := CommitRange{End: "HEAD"}
	if got := r.String(); got != "(repository start)..HEAD" {
		t.Errorf("String() = %q", got)
	}

	r = CommitRange{Start: "v1.0.0", End: "HEAD"}
	if got := r.String(); got != "v1.0.0..HEAD" {
		t.Errorf("String() = %q", got)
	}
}
