package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient talks to the OpenAI chat completions API or to any
// endpoint that speaks the same protocol.
type OpenAIClient struct {
	client   *http.Client
	apiKey   string
	model    string
	endpoint string
	name     string
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a client for the OpenAI API. An empty baseURL
// selects the official endpoint; anything else is normalized so both
// bare hosts and full /v1/chat/completions URLs work.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	return newChatClient("openai", apiKey, model, baseURL, timeout)
}

// NewCompatibleClient creates a client for a self-hosted or third-party
// OpenAI-compatible endpoint. The API key may be empty; local servers
// usually run without one.
func NewCompatibleClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	return newChatClient("compatible", apiKey, model, baseURL, timeout)
}

func newChatClient(name, apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		client:   &http.Client{Timeout: timeout},
		apiKey:   apiKey,
		model:    model,
		endpoint: normalizeEndpoint(baseURL),
		name:     name,
	}
}

// normalizeEndpoint accepts a bare host, a /v1 base, or a full chat
// completions URL and returns the full URL.
func normalizeEndpoint(baseURL string) string {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		return defaultOpenAIEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(endpoint, "/chat/completions") {
		return endpoint
	}
	if strings.HasSuffix(endpoint, "/v1") {
		return endpoint + "/chat/completions"
	}
	return endpoint + "/v1/chat/completions"
}

// Name implements Client.
func (c *OpenAIClient) Name() string {
	return c.name
}

// Model implements Client.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete implements Client. The temperature is pinned low so replies
// stay close to the requested JSON contract.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.model) == "" {
		return "", fmt.Errorf("%s: model is required", c.name)
	}

	body, err := json.Marshal(openAIChatRequest{
		Model: c.model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s request failed (%d): %s", c.name, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.name)
	}
	return parsed.Choices[0].Message.Content, nil
}
