package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", "test-model", 512)
	c.baseURL = srv.URL
	return c
}

func TestSummarize(t *testing.T) {
	var gotReq apiRequest
	var gotKey, gotVersion string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "## Work\n- Standup moved"}],
			"model": "test-model",
			"stop_reason": "end_turn"
		}`))
	})

	raw := "Sender: boss@example.com\nSubject: Standup\n"
	md, err := c.Summarize(context.Background(), raw, Options{Today: promptDay})
	if err != nil {
		t.Fatalf("summarizing: %v", err)
	}

	if !strings.Contains(md, "## Work") {
		t.Fatalf("markdown = %q", md)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != apiVersion {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != 512 {
		t.Errorf("request model/tokens = %q/%d", gotReq.Model, gotReq.MaxTokens)
	}
	if !strings.Contains(gotReq.System, "administrative assistant") {
		t.Errorf("system prompt = %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content[0].Text != raw {
		t.Errorf("raw text not passed through verbatim: %+v", gotReq.Messages)
	}
}

func TestSummarizeAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	})

	_, err := c.Summarize(context.Background(), "raw", Options{Today: promptDay})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsSummarizationError(err) {
		t.Fatalf("expected a SummarizationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("error = %v, want the API message surfaced", err)
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "msg_02", "content": [], "stop_reason": "end_turn"}`))
	})

	_, err := c.Summarize(context.Background(), "raw", Options{Today: promptDay})
	if !IsSummarizationError(err) {
		t.Fatalf("expected a SummarizationError, got %v", err)
	}
}

func TestSummarizeConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New("test-key", "", 0)
	c.baseURL = url

	_, err := c.Summarize(context.Background(), "raw", Options{Today: promptDay})
	if !IsSummarizationError(err) {
		t.Fatalf("expected a SummarizationError, got %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New("key", "", 0)

	if c.model != defaultModel {
		t.Errorf("model = %q, want the default", c.model)
	}
	if c.maxTokens != defaultMaxTokens {
		t.Errorf("maxTokens = %d, want the default", c.maxTokens)
	}
}
