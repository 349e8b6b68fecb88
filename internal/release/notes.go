package release

import (
	"strings"

	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/version"
)

// HeuristicBump derives a bump type from conventional-commit subjects when
// AI is disabled or unavailable: breaking changes win over features, which
// win over everything else.
func HeuristicBump(commits []git.Commit) string {
	bump := version.BumpPatch
	for _, c := range commits {
		if isBreaking(c) {
			return version.BumpMajor
		}
		if strings.HasPrefix(c.Subject, "feat") {
			bump = version.BumpMinor
		}
	}
	return bump
}

func isBreaking(c git.Commit) bool {
	if strings.Contains(c.Body, "BREAKING CHANGE") {
		return true
	}
	// Conventional commits mark breaking changes with "!" before the colon,
	// e.g. "feat(api)!: drop v1 endpoints".
	if idx := strings.Index(c.Subject, ":"); idx > 0 {
		return strings.HasSuffix(strings.TrimSpace(c.Subject[:idx]), "!")
	}
	return false
}

// PlainChangelog renders grouped Markdown release notes without AI help.
func PlainChangelog(v string, commits []git.Commit) string {
	var added, fixed, changed []string
	for _, c := range commits {
		subject := c.Subject
		switch {
		case strings.HasPrefix(subject, "feat"):
			added = append(added, stripType(subject))
		case strings.HasPrefix(subject, "fix"):
			fixed = append(fixed, stripType(subject))
		default:
			changed = append(changed, stripType(subject))
		}
	}

	var b strings.Builder
	b.WriteString("## " + v + "\n")
	section(&b, "### Added", added)
	section(&b, "### Changed", changed)
	section(&b, "### Fixed", fixed)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + title + "\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}

// stripType removes a leading conventional-commit type like "feat(scope): ".
func stripType(subject string) string {
	idx := strings.Index(subject, ":")
	if idx <= 0 || idx > 20 {
		return subject
	}
	return strings.TrimSpace(subject[idx+1:])
}
