package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIClient implements Client against the OpenAI Chat Completions API.
// Every request goes through CallWithRetry, so HTTP 429 responses are
// retried with backoff and everything else fails fast.
type OpenAIClient struct {
	APIKey  string
	Model   string
	BaseURL string
	Retry   RetryPolicy
	client  *http.Client
}

// NewOpenAIClient creates a client with the default model and retry policy.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		APIKey:  apiKey,
		Model:   defaultOpenAIModel,
		BaseURL: defaultOpenAIBaseURL,
		Retry:   DefaultRetryPolicy(),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt and returns the completion text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return CallWithRetry(ctx, "openai completion", c.Retry, func(ctx context.Context) (string, error) {
		return c.makeRequest(ctx, prompt)
	})
}

// CompleteWithSchema sends a prompt and unmarshals the JSON response into
// schema. Markdown code fences around the JSON are stripped first; a
// response that still fails to parse is a hard failure, never retried.
// Schemas with list-valued fields should use StringList to tolerate models
// answering with comma-joined strings.
func (c *OpenAIClient) CompleteWithSchema(ctx context.Context, prompt string, schema any) error {
	response, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}

	cleaned := StripCodeFence(response)
	if err := json.Unmarshal([]byte(cleaned), schema); err != nil {
		return fmt.Errorf("completion response does not match schema: %w", err)
	}
	return nil
}

func (c *OpenAIClient) makeRequest(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{Err: fmt.Errorf("HTTP 429: %s", string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// codeFenceRe matches a completion fully wrapped in ```json ... ``` fences.
var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence, which models
// sometimes wrap JSON responses in despite instructions.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}
