package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/release-ai/release-ai/internal/version"
)

// Suggestion is the strict JSON payload the model returns for a
// version-bump suggestion.
type Suggestion struct {
	BumpType         string   `json:"bump_type"`
	SuggestedVersion string   `json:"suggested_version"`
	Reasoning        string   `json:"reasoning"`
	Highlights       []string `json:"highlights"`
}

// SuggestVersion asks the model for a bump suggestion based on the commit
// subjects since the last release. The response must be the strict JSON
// contract; anything else is an error.
func (c *Client) SuggestVersion(ctx context.Context, currentVersion string, commitSubjects []string) (*Suggestion, error) {
	text, err := c.Message(ctx, renderSuggestPrompt(currentVersion, commitSubjects))
	if err != nil {
		return nil, err
	}

	payload := extractJSON(text)
	var s Suggestion
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("AI returned malformed suggestion JSON: %w", err)
	}

	switch s.BumpType {
	case version.BumpMajor, version.BumpMinor, version.BumpPatch:
	default:
		return nil, fmt.Errorf("AI suggested unknown bump type %q", s.BumpType)
	}
	if !version.IsValid(s.SuggestedVersion) {
		return nil, fmt.Errorf("AI suggested invalid version %q", s.SuggestedVersion)
	}
	return &s, nil
}

// ReleaseNotes asks the model for Markdown release notes for a version.
func (c *Client) ReleaseNotes(ctx context.Context, v string, commitSubjects []string) (string, error) {
	text, err := c.Message(ctx, renderNotesPrompt(v, commitSubjects))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Assist answers a one-shot operator question with repository context.
func (c *Client) Assist(ctx context.Context, repoContext, question string) (string, error) {
	text, err := c.Message(ctx, renderAssistPrompt(repoContext, question))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// extractJSON tolerates models wrapping the payload in code fences or
// prose: it returns the substring from the first '{' to the last '}'.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
