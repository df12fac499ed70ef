package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gorevise/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "provider.name").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., pointless combinations).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownProviders lists valid provider names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownProviders = map[string]bool{
	config.ProviderOpenAI:     true,
	config.ProviderGemini:     true,
	config.ProviderCompatible: true,
}

// knownSeverities lists valid severity values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownSeverities = map[string]bool{
	"error":   true,
	"warning": true,
	"info":    true,
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatJSON:    true,
	config.FormatSummary: true,
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	// Validate provider.name
	if cfg.Provider.Name != "" && !knownProviders[cfg.Provider.Name] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "provider.name",
			Value:   cfg.Provider.Name,
			Message: fmt.Sprintf("invalid provider %q; must be one of: openai, gemini, compatible", cfg.Provider.Name),
		})
	}

	// The compatible provider has no default endpoint
	if cfg.Provider.Name == config.ProviderCompatible && cfg.Provider.BaseURL == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "provider.base_url",
			Value:   "",
			Message: "provider \"compatible\" requires base_url",
		})
	}

	// Validate provider.timeout_seconds
	if cfg.Provider.TimeoutSeconds < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "provider.timeout_seconds",
			Value:   cfg.Provider.TimeoutSeconds,
			Message: "timeout_seconds must be >= 0 (0 means default)",
		})
	}

	// Validate severity_default
	if cfg.SeverityDefault != "" && !knownSeverities[cfg.SeverityDefault] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "severity_default",
			Value:   cfg.SeverityDefault,
			Message: fmt.Sprintf("invalid severity %q; must be one of: error, warning, info", cfg.SeverityDefault),
		})
	}

	// Validate format
	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, summary", cfg.Format),
		})
	}

	// Validate review.jobs
	if cfg.Review.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "review.jobs",
			Value:   cfg.Review.Jobs,
			Message: "jobs must be >= 0 (0 means default)",
		})
	}

	// Validate review.max_proposals
	if cfg.Review.MaxProposals < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "review.max_proposals",
			Value:   cfg.Review.MaxProposals,
			Message: "max_proposals must be >= 0 (0 means unlimited)",
		})
	}

	// Validate apply.backups.mode
	if cfg.Apply.Backups.Mode != "" && !knownBackupModes[cfg.Apply.Backups.Mode] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "apply.backups.mode",
			Value:   cfg.Apply.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Apply.Backups.Mode),
		})
	}

	// Validate watch.debounce_ms
	if cfg.Watch.DebounceMS < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   cfg.Watch.DebounceMS,
			Message: "debounce_ms must be >= 0 (0 means default)",
		})
	}

	// Validate extensions
	validateExtensions(cfg, result)

	// Validate ignore patterns
	validateIgnorePatterns(cfg, result)

	return result
}

// validateExtensions warns about extension entries missing the leading dot.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Review.Extensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("review.extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q has no leading dot; it will never match", ext),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Review.Ignore {
		// filepath.Match returns an error only for malformed patterns
		_, err := filepath.Match(pattern, "")
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("review.ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	// Add file path to all errors and warnings
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidSeverity returns true if the severity string is valid.
func IsValidSeverity(s string) bool {
	return knownSeverities[s]
}

// IsValidProvider returns true if the provider name is valid.
func IsValidProvider(name string) bool {
	return knownProviders[name]
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return knownBackupModes[mode]
}
