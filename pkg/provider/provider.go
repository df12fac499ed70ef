// Package provider connects gorevise to text generation services. A
// Client turns one prompt into one reply; the Service layered on top
// builds review prompts and parses replies into review results.
package provider

import (
	"context"
	"errors"
)

// Sentinel errors for provider construction.
var (
	// ErrUnknownProvider is returned for provider names the factory
	// does not recognize.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey is returned when a provider requires an API key
	// and none was found in the environment.
	ErrMissingAPIKey = errors.New("missing api key")

	// ErrMissingBaseURL is returned when the compatible provider is
	// selected without an endpoint to talk to.
	ErrMissingBaseURL = errors.New("missing base url")
)

// Client is a text generation service. One call, one prompt, one reply.
type Client interface {
	// Complete sends prompt and returns the model's reply text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider ("openai", "gemini", "compatible").
	Name() string

	// Model identifies the model the client was configured with.
	Model() string
}

// Info describes one supported provider for display purposes.
type Info struct {
	Name         string `json:"name"`
	DefaultModel string `json:"defaultModel"`
	EnvVar       string `json:"envVar"`
	Notes        string `json:"notes"`
}

// Catalog lists the supported providers in display order.
func Catalog() []Info {
	return []Info{
		{
			Name:         "openai",
			DefaultModel: "gpt-4o-mini",
			EnvVar:       openAIKeyEnv,
			Notes:        "OpenAI chat completions API",
		},
		{
			Name:         "gemini",
			DefaultModel: "gemini-2.0-flash",
			EnvVar:       geminiKeyEnv,
			Notes:        "Google Gemini API",
		},
		{
			Name:         "compatible",
			DefaultModel: "",
			EnvVar:       openAIKeyEnv,
			Notes:        "any OpenAI-compatible endpoint; requires base_url, key optional",
		},
	}
}
