package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaClient implements Client against a local Ollama server, for running
// enrichment fully offline. Local models don't rate limit, so responses go
// straight through without the retry wrapper.
type OllamaClient struct {
	BaseURL string
	Model   string
	client  *http.Client
}

// NewOllamaClient creates a client for the Ollama generate API.
// baseURL is typically "http://localhost:11434".
func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		BaseURL: baseURL,
		Model:   model,
		// Local models can be slow on first load.
		client: &http.Client{Timeout: 300 * time.Second},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends a prompt and returns the raw completion text.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.generate(ctx, prompt, "")
	if err != nil {
		return "", err
	}
	return result, nil
}

// CompleteWithSchema asks Ollama for strict JSON output and unmarshals it
// into schema.
func (c *OllamaClient) CompleteWithSchema(ctx context.Context, prompt string, schema any) error {
	result, err := c.generate(ctx, prompt, "json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(result), schema); err != nil {
		return fmt.Errorf("completion response does not match schema: %w (response: %s)", err, result)
	}
	return nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt, format string) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.Model,
		Prompt: prompt,
		Stream: false,
		Format: format,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(body))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Response, nil
}
