package git

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Commit is one entry from a commit-log query.
type Commit struct {
	Hash    string
	Subject string
	Body    string
}

// prettyFormat is the pipe-delimited log format used throughout release-ai:
// hash, subject, body.
const prettyFormat = "%H|%s|%b"

var hashLine = regexp.MustCompile(`^[0-9a-f]{40}\|`)

// parseLog parses `git log --pretty=format:%H|%s|%b` output. A commit body
// may span lines; continuation lines are appended to the previous commit.
func parseLog(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		if hashLine.MatchString(line) {
			parts := strings.SplitN(line, "|", 3)
			c := Commit{Hash: parts[0], Subject: parts[1]}
			if len(parts) == 3 {
				c.Body = parts[2]
			}
			commits = append(commits, c)
			continue
		}
		if len(commits) == 0 {
			continue
		}
		last := &commits[len(commits)-1]
		if last.Body == "" {
			last.Body = strings.TrimSpace(line)
		} else if strings.TrimSpace(line) != "" {
			last.Body += "\n" + strings.TrimSpace(line)
		}
	}
	for i := range commits {
		commits[i].Body = strings.TrimSpace(commits[i].Body)
	}
	return commits
}

// Log returns the commits reachable from end but not from start
// (start exclusive). An empty start means the full history of end.
func Log(ctx context.Context, dir, start, end string) ([]Commit, error) {
	rangeArg := end
	if start != "" {
		rangeArg = start + ".." + end
	}
	output, err := outputGit(ctx, dir, "log", "--pretty=format:"+prettyFormat, rangeArg)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log for %s: %v", rangeArg, err)
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return nil, nil
	}
	return parseLog(trimmed), nil
}

// FindCommitByMessage returns the hash of the newest commit on ref whose
// message contains the given literal text. Returns empty string when no
// commit matches or the ref does not resolve.
func FindCommitByMessage(ctx context.Context, dir, ref, text string) string {
	output, err := outputGit(ctx, dir, "log", ref, "--fixed-strings", "--grep", text, "-n", "1", "--format=%H")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// CommitSubject returns the subject line of a single commit.
func CommitSubject(ctx context.Context, dir, ref string) (string, error) {
	output, err := outputGit(ctx, dir, "log", "-1", "--format=%s", ref)
	if err != nil {
		return "", fmt.Errorf("failed to read commit subject for %s: %v", ref, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Subjects returns the commit subjects as plain lines, oldest last.
// Used to assemble AI prompt payloads.
func Subjects(commits []Commit) []string {
	subjects := make([]string, 0, len(commits))
	for _, c := range commits {
		subjects = append(subjects, c.Subject)
	}
	return subjects
}
