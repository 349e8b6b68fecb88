package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// messagesServer fakes the Messages API with a fixed response text.
func messagesServer(t *testing.T, responseText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") == "" {
			t.Error("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("anthropic-version = %q", r.Header.Get("anthropic-version"))
		}

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("malformed request body: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want one user message", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]string{{"type": "text", "text": responseText}},
			"stop_reason": "end_turn",
		})
	}))
}

func TestMessage_Success(t *testing.T) {
	t.Parallel()
	server := messagesServer(t, "hello from the model")
	defer server.Close()

	c := NewWithBaseURL(server.URL, "test-key", "test-model", 256)
	got, err := c.Message(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if got != "hello from the model" {
		t.Errorf("Message() = %q", got)
	}
}

func TestMessage_MissingKey(t *testing.T) {
	t.Parallel()
	c := NewWithBaseURL("http://localhost:1", "", "test-model", 256)

	_, err := c.Message(context.Background(), "anything")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestMessage_APIError(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]string{
				"type":    "rate_limit_error",
				"message": "Too many requests",
			},
		})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "test-key", "test-model", 256)
	_, err := c.Message(context.Background(), "anything")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if apiErr.Type != "rate_limit_error" {
		t.Errorf("Type = %q", apiErr.Type)
	}
	if !strings.Contains(apiErr.Error(), "Too many requests") {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestMessage_Timeout(t *testing.T) {
	t.Parallel()
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the request open until the caller's deadline fires.
		<-done
	}))
	defer server.Close()
	defer close(done)

	c := NewWithBaseURL(server.URL, "test-key", "test-model", 256)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Message(ctx, "anything")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestMessage_TransportFailure(t *testing.T) {
	t.Parallel()
	// Port 1 is reserved and refuses connections.
	c := NewWithBaseURL("http://127.0.0.1:1", "test-key", "test-model", 256)

	_, err := c.Message(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("connection refusal misclassified: %v", err)
	}
}

func TestSuggestVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     *Suggestion
		wantErr  bool
	}{
		{
			name:     "strict JSON",
			response: `{"bump_type":"minor","suggested_version":"2.1.0","reasoning":"new features","highlights":["export api"]}`,
			want:     &Suggestion{BumpType: "minor", SuggestedVersion: "2.1.0", Reasoning: "new features", Highlights: []string{"export api"}},
		},
		{
			name:     "JSON wrapped in code fence",
			response: "```json\n{\"bump_type\":\"patch\",\"suggested_version\":\"2.0.4\",\"reasoning\":\"fixes only\"}\n```",
			want:     &Suggestion{BumpType: "patch", SuggestedVersion: "2.0.4", Reasoning: "fixes only"},
		},
		{
			name:     "unknown bump type rejected",
			response: `{"bump_type":"huge","suggested_version":"3.0.0","reasoning":"big"}`,
			wantErr:  true,
		},
		{
			name:     "invalid suggested version rejected",
			response: `{"bump_type":"major","suggested_version":"v3.0","reasoning":"big"}`,
			wantErr:  true,
		},
		{
			name:     "prose without JSON rejected",
			response: "I think you should bump minor.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := messagesServer(t, tt.response)
			defer server.Close()

			c := NewWithBaseURL(server.URL, "test-key", "test-model", 256)
			got, err := c.SuggestVersion(context.Background(), "2.0.3", []string{"feat: export api"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("SuggestVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.BumpType != tt.want.BumpType ||
				got.SuggestedVersion != tt.want.SuggestedVersion ||
				got.Reasoning != tt.want.Reasoning {
				t.Errorf("SuggestVersion() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReleaseNotes(t *testing.T) {
	t.Parallel()
	server := messagesServer(t, "\n## 2.1.0\n\n- export api\n")
	defer server.Close()

	c := NewWithBaseURL(server.URL, "test-key", "test-model", 256)
	got, err := c.ReleaseNotes(context.Background(), "2.1.0", []string{"feat: export api"})
	if err != nil {
		t.Fatalf("ReleaseNotes() error = %v", err)
	}
	if got != "## 2.1.0\n\n- export api" {
		t.Errorf("ReleaseNotes() = %q, want trimmed notes", got)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go: {\"a\":1}. Enjoy!", `{"a":1}`},
		{"no braces passes through", "no json here", "no json here"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
