package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{
			name:     "empty selects official endpoint",
			baseURL:  "",
			expected: "https://api.openai.com/v1/chat/completions",
		},
		{
			name:     "bare host",
			baseURL:  "http://localhost:11434",
			expected: "http://localhost:11434/v1/chat/completions",
		},
		{
			name:     "host with trailing slash",
			baseURL:  "http://localhost:11434/",
			expected: "http://localhost:11434/v1/chat/completions",
		},
		{
			name:     "v1 base",
			baseURL:  "https://example.com/v1",
			expected: "https://example.com/v1/chat/completions",
		},
		{
			name:     "full chat completions url",
			baseURL:  "https://example.com/v1/chat/completions",
			expected: "https://example.com/v1/chat/completions",
		},
		{
			name:     "whitespace only",
			baseURL:  "   ",
			expected: "https://api.openai.com/v1/chat/completions",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, normalizeEndpoint(testCase.baseURL))
		})
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody openAIChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"the reply"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", "gpt-4o-mini", server.URL, 5*time.Second)

	reply, err := client.Complete(context.Background(), "review this")
	require.NoError(t, err)

	assert.Equal(t, "the reply", reply)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "review this", gotBody.Messages[0].Content)
	assert.InDelta(t, 0.1, gotBody.Temperature, 0.001)
}

func TestOpenAIClient_Complete_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", "gpt-4o-mini", server.URL, 5*time.Second)

	_, err := client.Complete(context.Background(), "review this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", "gpt-4o-mini", server.URL, 5*time.Second)

	_, err := client.Complete(context.Background(), "review this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIClient_Complete_MissingModel(t *testing.T) {
	t.Parallel()

	client := NewOpenAIClient("sk-test", "", "http://localhost:1", 5*time.Second)

	_, err := client.Complete(context.Background(), "review this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")
}

func TestCompatibleClient_OmitsAuthWithoutKey(t *testing.T) {
	t.Parallel()

	var sawAuthHeader bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewCompatibleClient("", "llama3", server.URL, 5*time.Second)

	reply, err := client.Complete(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, "ok", reply)
	assert.False(t, sawAuthHeader, "no Authorization header expected without a key")
	assert.Equal(t, "compatible", client.Name())
	assert.Equal(t, "llama3", client.Model())
}
