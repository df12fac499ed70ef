package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yaklabco/gorevise/pkg/config"
)

// Conventional API key environment variables consulted when the
// configuration does not name one.
const (
	openAIKeyEnv = "OPENAI_API_KEY"
	geminiKeyEnv = "GEMINI_API_KEY"
)

// New builds a Client from provider configuration. The API key comes
// from the environment: the variable named by api_key_env when set,
// otherwise the provider's conventional variable.
func New(ctx context.Context, cfg config.ProviderConfig) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		name = config.ProviderOpenAI
	}

	switch name {
	case config.ProviderOpenAI:
		key, envVar := lookupKey(cfg, openAIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, envVar)
		}
		return NewOpenAIClient(key, cfg.Model, cfg.BaseURL, cfg.Timeout()), nil

	case config.ProviderGemini:
		key, envVar := lookupKey(cfg, geminiKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, envVar)
		}
		return NewGeminiClient(ctx, key, cfg.Model)

	case config.ProviderCompatible:
		if strings.TrimSpace(cfg.BaseURL) == "" {
			return nil, fmt.Errorf("%w: the compatible provider needs base_url", ErrMissingBaseURL)
		}
		// Local endpoints commonly run without authentication, so a
		// missing key is fine here.
		key, _ := lookupKey(cfg, openAIKeyEnv)
		return NewCompatibleClient(key, cfg.Model, cfg.BaseURL, cfg.Timeout()), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Name)
	}
}

// lookupKey resolves the API key and reports which variable was
// consulted, for error messages.
func lookupKey(cfg config.ProviderConfig, conventional string) (key, envVar string) {
	envVar = conventional
	if v := strings.TrimSpace(cfg.APIKeyEnv); v != "" {
		envVar = v
	}
	return strings.TrimSpace(os.Getenv(envVar)), envVar
}
