// Package ai talks to the Anthropic Messages API for release notes,
// version suggestions, and one-shot assistance.
//
// Requests carry a model identifier, a max-token budget, and a single
// user-role message with a fully-rendered prompt. Calls use a fixed 30s
// client timeout and are never retried here; the calling feature aborts
// and reports the distinguishing cause (missing credential, timeout,
// transport failure, or API-reported error).
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	apiVersion     = "2023-06-01"
	requestTimeout = 30 * time.Second

	// APIKeyEnv is the environment variable holding the credential.
	APIKeyEnv = "ANTHROPIC_API_KEY"
)

// ErrMissingAPIKey is returned before any network call when no credential
// is configured.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set")

// ErrTimeout indicates the request exceeded the fixed client timeout.
var ErrTimeout = errors.New("AI request timed out after " + requestTimeout.String())

// APIError is an error object reported by the API itself.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("AI API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("AI API error (%d)", e.StatusCode)
}

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a client for the given model and token budget. The
// credential is read from the environment; New succeeds with an empty key
// so that non-AI commands work, and Message fails fast before calling.
func New(model string, maxTokens int) *Client {
	return &Client{
		apiKey:    os.Getenv(APIKeyEnv),
		baseURL:   defaultBaseURL,
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

// NewWithBaseURL is used by tests to point the client at a local server.
func NewWithBaseURL(baseURL, apiKey, model string, maxTokens int) *Client {
	c := New(model, maxTokens)
	c.baseURL = baseURL
	c.apiKey = apiKey
	return c
}

// Message sends a single user prompt and returns the response text.
func (c *Client) Message(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope errorEnvelope
		if json.Unmarshal(respBody, &envelope) == nil {
			apiErr.Type = envelope.Error.Type
			apiErr.Message = envelope.Error.Message
		}
		return "", apiErr
	}

	var msg messageResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", errors.New("empty response content")
	}
	return msg.Content[0].Text, nil
}

// isTimeout distinguishes a timeout from other transport failures.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
