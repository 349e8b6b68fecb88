// Package release implements the release workflow: locating the last
// release boundary in commit history and orchestrating the
// start/merge/finalize/rollback lifecycle.
package release

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/release-ai/release-ai/internal/git"
)

// BumpMessagePrefix starts every version-bump commit this tool creates.
const BumpMessagePrefix = "chore(release): bump version to "

// BumpMessage returns the bump commit message for a bare version string.
func BumpMessage(version string) string {
	return BumpMessagePrefix + version
}

// ErrNoReleaseHistory signals that no previous release could be located.
// This is a normal condition (first-ever release), not a failure: callers
// treat it as "the range is the full history".
var ErrNoReleaseHistory = errors.New("no release history found")

// CommitRange is the span of work since the last release boundary.
// Start is a commit hash, a tag name, or empty for "repository start";
// when non-empty it is exclusive. End defaults to HEAD.
type CommitRange struct {
	Start string
	End   string
}

func (r CommitRange) String() string {
	if r.Start == "" {
		return "(repository start).." + r.End
	}
	return r.Start + ".." + r.End
}

var versionInMessage = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ResolveLastReleaseTag finds the tag of the most recent release using a
// layered fallback, because releases may be tagged on one branch while the
// relevant history lives on another:
//
//  1. nearest reachable tag (describe semantics)
//  2. bump commit message on the development branch (local, else remote)
//  3. bump commit message on the current branch
//  4. newest tag (by commit date) that is an ancestor of HEAD
//
// When nothing matches, ErrNoReleaseHistory is returned.
func ResolveLastReleaseTag(ctx context.Context, dir, devBranch string) (string, error) {
	if tag := git.DescribeNearestTag(ctx, dir); tag != "" && semver.IsValid(tag) {
		return tag, nil
	}

	for _, ref := range bumpSearchRefs(ctx, dir, devBranch) {
		hash := git.FindCommitByMessage(ctx, dir, ref, BumpMessagePrefix)
		if hash == "" {
			continue
		}
		subject, err := git.CommitSubject(ctx, dir, hash)
		if err != nil {
			continue
		}
		if v := versionInMessage.FindString(subject); v != "" {
			return "v" + v, nil
		}
	}

	tags, err := git.TagsByDateDesc(ctx, dir)
	if err != nil {
		return "", err
	}
	for _, tag := range tags {
		// Skip tags that are not version tags (deploy markers, etc).
		if !semver.IsValid(tag) {
			continue
		}
		if git.IsAncestor(ctx, dir, tag, "HEAD") {
			return tag, nil
		}
	}

	return "", ErrNoReleaseHistory
}

// bumpSearchRefs lists the refs to search for a bump commit, in order:
// development branch local, development branch remote-tracking, then the
// current position. The bump-commit heuristic matters in a
// fork-per-release-branch workflow, where the annotated tag may not yet be
// an ancestor of the branch being inspected but the bump commit usually is.
func bumpSearchRefs(ctx context.Context, dir, devBranch string) []string {
	var refs []string
	if devBranch != "" {
		if git.LocalBranchExists(ctx, dir, devBranch) {
			refs = append(refs, devBranch)
		} else if git.RemoteBranchExists(ctx, dir, devBranch) {
			refs = append(refs, "origin/"+devBranch)
		}
	}
	return append(refs, "HEAD")
}

// CommitsSinceLastRelease resolves the commit range since the last release
// boundary and extracts its commit log. endRef defaults to HEAD.
//
// The boundary is, in order of preference: the bump commit for the
// resolved tag's version (exclusive), the tag itself if it resolves
// (exclusive), or the repository start.
func CommitsSinceLastRelease(ctx context.Context, dir, devBranch, endRef string) (CommitRange, []git.Commit, error) {
	if endRef == "" {
		endRef = "HEAD"
	}

	tag, err := ResolveLastReleaseTag(ctx, dir, devBranch)
	if err != nil {
		if errors.Is(err, ErrNoReleaseHistory) {
			commits, logErr := git.Log(ctx, dir, "", endRef)
			if logErr != nil {
				return CommitRange{}, nil, logErr
			}
			return CommitRange{End: endRef}, commits, nil
		}
		return CommitRange{}, nil, err
	}

	bareVersion := strings.TrimPrefix(tag, "v")
	start := ""
	for _, ref := range bumpSearchRefs(ctx, dir, devBranch) {
		if hash := git.FindCommitByMessage(ctx, dir, ref, BumpMessage(bareVersion)); hash != "" {
			start = hash
			break
		}
	}
	if start == "" && git.RefExists(ctx, dir, tag) {
		start = tag
	}

	commits, err := git.Log(ctx, dir, start, endRef)
	if err != nil {
		return CommitRange{}, nil, fmt.Errorf("extract commits since %s: %w", tag, err)
	}
	return CommitRange{Start: start, End: endRef}, commits, nil
}
