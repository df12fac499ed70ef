package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every field with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return generateJSONTemplate()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(`# gorevise configuration
# See: https://github.com/yaklabco/gorevise

provider:
  # Provider: openai, gemini, or compatible (custom OpenAI-style endpoint)
  name: openai
  model: gpt-4o-mini
  # base_url: https://my-gateway.example.com/v1

# review:
#   max_proposals: 10
#   jobs: 2
#   ignore:
#     - "vendor/**"
#     - "node_modules/**"

# Output format: text, json, or summary
# format: text
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template with every field documented.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(`# gorevise configuration - Full Template
# See: https://github.com/yaklabco/gorevise
#
# Uncomment and modify settings as needed. API keys are never stored
# here; they are read from the environment (or a .env file) using the
# provider's conventional variable, e.g. OPENAI_API_KEY, GEMINI_API_KEY.

provider:
  # Provider: openai, gemini, or compatible
  name: openai

  # Model identifier passed to the provider
  model: gpt-4o-mini

  # Custom endpoint for OpenAI-compatible gateways (required for
  # name: compatible, optional otherwise)
  base_url: ""

  # Environment variable holding the API key (overrides the default)
  api_key_env: ""

  # Per-request timeout in seconds
  timeout_seconds: 90

review:
  # Maximum proposals requested per file
  max_proposals: 10

  # Files reviewed concurrently (keep small; provider rate limits apply)
  jobs: 2

  # Restrict reviewable files by extension (empty = detect by content)
  # extensions:
  #   - .go
  #   - .ts

  # Glob patterns to skip
  ignore:
    - "vendor/**"
    - "node_modules/**"
    - ".git/**"

  # Persist reviews to the session store for later 'gorevise apply'
  save_sessions: true

apply:
  # Sidecar backups (.gorevise.bak) before writing changes
  backups:
    enabled: false
    mode: sidecar

store:
  # Session database path (empty = XDG data dir)
  path: ""

watch:
  # Settle time before a changed file is re-reviewed
  debounce_ms: 500

# Output format: text, json, or summary
format: text

# Severity assigned to proposals that carry none: error, warning, info
severity_default: info
`)

	return buf.Bytes()
}

// generateJSONTemplate emits the default configuration as JSON.
func generateJSONTemplate() ([]byte, error) {
	cfg := map[string]any{
		"provider": map[string]any{
			"name":            ProviderOpenAI,
			"model":           "gpt-4o-mini",
			"base_url":        "",
			"api_key_env":     "",
			"timeout_seconds": 90,
		},
		"review": map[string]any{
			"max_proposals": DefaultMaxProposals,
			"jobs":          DefaultJobs,
			"ignore":        []string{"vendor/**", "node_modules/**", ".git/**"},
			"save_sessions": true,
		},
		"apply": map[string]any{
			"backups": map[string]any{
				"enabled": false,
				"mode":    "sidecar",
			},
		},
		"store": map[string]any{
			"path": "",
		},
		"watch": map[string]any{
			"debounce_ms": 500,
		},
		"format":           string(FormatText),
		"severity_default": string(SeverityInfo),
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}
