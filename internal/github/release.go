// Package github creates GitHub releases through the gh CLI.
package github

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/release-ai/release-ai/internal/cmd"
)

// ErrGhNotFound indicates the gh CLI is not installed or not in PATH.
var ErrGhNotFound = fmt.Errorf("gh not found: install the GitHub CLI (https://cli.github.com) or skip release creation")

// CheckGh verifies that the gh CLI is available in PATH.
func CheckGh() error {
	_, err := exec.LookPath("gh")
	if err != nil {
		return ErrGhNotFound
	}
	return nil
}

// CreateRelease creates a GitHub release for an existing pushed tag.
func CreateRelease(ctx context.Context, dir, tag, title, notes string) error {
	args := []string{"release", "create", tag, "--title", title}
	if notes != "" {
		args = append(args, "--notes", notes)
	} else {
		args = append(args, "--generate-notes")
	}
	if err := cmd.RunContext(ctx, dir, "gh", args...); err != nil {
		return fmt.Errorf("failed to create GitHub release %s: %v", tag, err)
	}
	return nil
}
