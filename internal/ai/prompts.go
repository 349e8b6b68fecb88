package ai

import (
	"fmt"
	"strings"
)

// Prompt payloads are opaque text as far as the rest of the tool is
// concerned; only the strict-JSON contract of the version suggestion
// response is load-bearing.

const suggestPromptFormat = `You are helping cut a software release. The current version is %s.

Here are the commit subjects since the last release, newest first:

%s

Decide whether the next release should be a major, minor, or patch bump
following semantic versioning (breaking changes = major, new features =
minor, fixes and chores = patch).

Respond with ONLY a JSON object, no prose and no code fences, exactly:
{"bump_type": "major|minor|patch", "suggested_version": "X.Y.Z", "reasoning": "...", "highlights": ["...", "..."]}`

const notesPromptFormat = `Write release notes for version %s of this project.

Commits included in this release, newest first:

%s

Group related changes, lead with user-facing highlights, and keep it
concise. Use Markdown with "### Added", "### Changed", and "### Fixed"
sections, omitting empty sections. Do not invent changes that are not in
the commit list.`

const assistPromptFormat = `You are assisting the operator of a release automation tool for a git
repository.

Repository context:
%s

Question: %s

Answer concisely and concretely for this repository.`

func renderSuggestPrompt(currentVersion string, commitSubjects []string) string {
	return fmt.Sprintf(suggestPromptFormat, currentVersion, bulletList(commitSubjects))
}

func renderNotesPrompt(version string, commitSubjects []string) string {
	return fmt.Sprintf(notesPromptFormat, version, bulletList(commitSubjects))
}

func renderAssistPrompt(repoContext, question string) string {
	return fmt.Sprintf(assistPromptFormat, repoContext, question)
}

func bulletList(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
