package git

import (
	"context"
	"fmt"
	"strings"
)

// DescribeNearestTag returns the nearest reachable tag from HEAD
// (git describe semantics). Returns empty string if no tag is reachable.
func DescribeNearestTag(ctx context.Context, dir string) string {
	output, err := outputGit(ctx, dir, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// TagsByDateDesc returns all tags ordered by commit date, newest first.
func TagsByDateDesc(ctx context.Context, dir string) ([]string, error) {
	output, err := outputGit(ctx, dir, "tag", "--sort=-creatordate")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %v", err)
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// IsAncestor reports whether ref is an ancestor of target.
func IsAncestor(ctx context.Context, dir, ref, target string) bool {
	err := runGit(ctx, dir, "merge-base", "--is-ancestor", ref, target)
	return err == nil
}

// CreateTag creates an annotated tag at HEAD.
func CreateTag(ctx context.Context, dir, tag, message string) error {
	if err := runGit(ctx, dir, "tag", "-a", tag, "-m", message); err != nil {
		return fmt.Errorf("failed to create tag %s: %v", tag, err)
	}
	return nil
}

// PushTag pushes a tag to origin.
func PushTag(ctx context.Context, dir, tag string) error {
	if err := runGit(ctx, dir, "push", "origin", tag); err != nil {
		return fmt.Errorf("failed to push tag %s: %v", tag, err)
	}
	return nil
}
