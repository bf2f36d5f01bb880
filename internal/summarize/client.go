package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4096
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// SummarizationError indicates the generation service failed or returned an
// unusable digest. A run that fails with one keeps its raw artifact but
// must not write a Markdown artifact.
type SummarizationError struct {
	Message string
	Err     error
}

func (e *SummarizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("summarization error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("summarization error: %s", e.Message)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// IsSummarizationError reports whether err (or any error in its chain) is a
// SummarizationError.
func IsSummarizationError(err error) bool {
	var sumErr *SummarizationError
	return errors.As(err, &sumErr)
}

// Client turns a run's raw record text into a categorized Markdown digest by
// calling the Claude Messages API.
type Client struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
}

// New creates a summarization client. An empty model name or a non-positive
// token limit falls back to the defaults.
func New(apiKey, modelName string, maxTokens int) *Client {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		baseURL:   apiURL,
		client:    &http.Client{},
	}
}

// Summarize sends the raw text as a single user message under the digest
// instruction and returns the Markdown the service produced. The raw text
// goes through verbatim; the service sees exactly what the raw artifact
// holds. Network failures, non-OK statuses, and empty responses all come
// back as SummarizationErrors.
func (c *Client) Summarize(
	ctx context.Context,
	rawText string,
	opts Options,
) (string, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    instructions(opts),
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []apiContentBlock{
					{Type: "text", Text: rawText},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &SummarizationError{Message: "marshaling request", Err: err}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", &SummarizationError{Message: "creating request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &SummarizationError{Message: "calling Claude API", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SummarizationError{Message: "reading response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", &SummarizationError{
				Message: fmt.Sprintf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message),
			}
		}
		return "", &SummarizationError{
			Message: fmt.Sprintf("API error (%d): %s", resp.StatusCode, string(respBody)),
		}
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &SummarizationError{Message: "decoding response", Err: err}
	}

	var parts []string
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}

	markdown := strings.Join(parts, "")
	if strings.TrimSpace(markdown) == "" {
		return "", &SummarizationError{Message: "service returned an empty digest"}
	}

	return markdown, nil
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
