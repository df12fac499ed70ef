package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gorevise/pkg/config"
)

// envVarPrefix is the prefix for all gorevise environment variables.
const envVarPrefix = "GOREVISE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
// API keys are deliberately absent: they use the provider's own variable
// (OPENAI_API_KEY, GEMINI_API_KEY) or provider.api_key_env.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"PROVIDER":         {field: "provider.name", typ: envTypeString},
	"MODEL":            {field: "provider.model", typ: envTypeString},
	"BASE_URL":         {field: "provider.base_url", typ: envTypeString},
	"FORMAT":           {field: "format", typ: envTypeString},
	"SEVERITY_DEFAULT": {field: "severity_default", typ: envTypeString},
	"JOBS":             {field: "review.jobs", typ: envTypeInt},
	"MAX_PROPOSALS":    {field: "review.max_proposals", typ: envTypeInt},
	"IGNORE":           {field: "review.ignore", typ: envTypeSlice},
	"STORE_PATH":       {field: "store.path", typ: envTypeString},
	"NO_SAVE":          {field: "no_save", typ: envTypeBool},
	"DEBOUNCE_MS":      {field: "watch.debounce_ms", typ: envTypeInt},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOREVISE_ (e.g., GOREVISE_PROVIDER).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		parts := parseSliceValue(value)
		return setSliceField(cfg, mapping.field, parts)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "provider.name":
		cfg.Provider.Name = value
	case "provider.model":
		cfg.Provider.Model = value
	case "provider.base_url":
		cfg.Provider.BaseURL = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "severity_default":
		cfg.SeverityDefault = value
	case "store.path":
		cfg.Store.Path = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "no_save":
		cfg.NoSave = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "review.jobs":
		cfg.Review.Jobs = value
	case "review.max_proposals":
		cfg.Review.MaxProposals = value
	case "watch.debounce_ms":
		cfg.Watch.DebounceMS = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "review.ignore":
		cfg.Review.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GOREVISE_PROVIDER":         "Provider name: openai, gemini, or compatible",
		"GOREVISE_MODEL":            "Model identifier passed to the provider",
		"GOREVISE_BASE_URL":         "Custom endpoint for OpenAI-compatible gateways",
		"GOREVISE_FORMAT":           "Output format: text, json, or summary",
		"GOREVISE_SEVERITY_DEFAULT": "Default severity: error, warning, or info",
		"GOREVISE_JOBS":             "Number of files reviewed concurrently",
		"GOREVISE_MAX_PROPOSALS":    "Maximum proposals requested per file",
		"GOREVISE_IGNORE":           "Comma-separated list of ignore patterns",
		"GOREVISE_STORE_PATH":       "Session database path",
		"GOREVISE_NO_SAVE":          "Disable session persistence: true or false",
		"GOREVISE_DEBOUNCE_MS":      "Watch mode settle time in milliseconds",
	}
}
