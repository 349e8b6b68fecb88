package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/release-ai/release-ai/internal/log"
)

func quietCtx() context.Context {
	return log.WithLogger(context.Background(), log.New(&bytes.Buffer{}, false, false))
}

// initGitRepo drives RunContext the way the release workflow does, so the
// setup itself exercises the code under test.
func initGitRepo(t *testing.T, ctx context.Context) string {
	t.Helper()
	dir := t.TempDir()
	steps := [][]string{
		{"git", "init", "-b", "main"},
		{"git", "config", "user.email", "test@example.com"},
		{"git", "config", "user.name", "Test"},
		{"git", "config", "commit.gpgsign", "false"},
		{"git", "commit", "--allow-empty", "-m", "initial commit"},
	}
	for _, step := range steps {
		if err := RunContext(ctx, dir, step[0], step[1:]...); err != nil {
			t.Fatalf("RunContext(%v) error = %v", step, err)
		}
	}
	return dir
}

func TestRunContext_GitInit(t *testing.T) {
	t.Parallel()
	dir := initGitRepo(t, quietCtx())

	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		t.Errorf("expected .git directory after init: %v", err)
	}
}

func TestRunContext_FoldsGitStderr(t *testing.T) {
	t.Parallel()
	ctx := quietCtx()
	dir := initGitRepo(t, ctx)

	err := RunContext(ctx, dir, "git", "checkout", "release/9.9.9")
	if err == nil {
		t.Fatal("checkout of a missing release branch should fail")
	}
	if !strings.Contains(err.Error(), "release/9.9.9") {
		t.Errorf("error %q should carry git's message naming the branch", err)
	}
}

func TestRunContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(quietCtx())
	cancel()

	err := RunContext(ctx, "", "git", "status")
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestOutputContext_CurrentBranch(t *testing.T) {
	t.Parallel()
	ctx := quietCtx()
	dir := initGitRepo(t, ctx)

	out, err := OutputContext(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "main" {
		t.Errorf("current branch = %q, want %q", got, "main")
	}
}

func TestOutputContext_CommitLog(t *testing.T) {
	t.Parallel()
	ctx := quietCtx()
	dir := initGitRepo(t, ctx)

	out, err := OutputContext(ctx, dir, "git", "log", "--format=%s")
	if err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "initial commit" {
		t.Errorf("log subjects = %q, want %q", got, "initial commit")
	}
}

func TestOutputContext_Failure(t *testing.T) {
	t.Parallel()
	ctx := quietCtx()
	dir := initGitRepo(t, ctx)

	_, err := OutputContext(ctx, dir, "git", "rev-parse", "--verify", "v9.9.9")
	if err == nil {
		t.Fatal("rev-parse of a missing tag should fail")
	}
	if msg := err.Error(); !strings.Contains(msg, "fatal") && !strings.Contains(msg, "v9.9.9") {
		t.Errorf("error %q should carry git's stderr", msg)
	}
}

func TestOutputContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(quietCtx())
	cancel()

	_, err := OutputContext(ctx, "", "git", "status")
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCommandLoggedWhenVerbose(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	dir := initGitRepo(t, ctx)

	if _, err := OutputContext(ctx, dir, "git", "status", "--porcelain"); err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	if !strings.Contains(buf.String(), "$ git status --porcelain") {
		t.Errorf("verbose log %q missing command trace", buf.String())
	}
}
