// Package config defines core configuration types for gorevise.
// These types are pure data structures with no dependency on the loader,
// the CLI, or any provider SDK.
package config

import "time"

// Severity represents the severity level of a review proposal.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity maps a string onto a known severity.
// Unknown or empty values default to SeverityInfo; proposals are
// untrusted input and a bad severity must not fail a review.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityError, SeverityWarning, SeverityInfo:
		return Severity(s)
	default:
		return SeverityInfo
	}
}

// IsValid returns true if the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// OutputFormat specifies the output format for review results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// Provider names understood by the provider factory.
const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderCompatible = "compatible"
)

// ProviderConfig selects and configures the generation service.
type ProviderConfig struct {
	// Name selects the provider: "openai", "gemini", or "compatible"
	// (any OpenAI-compatible chat completion endpoint).
	Name string `mapstructure:"name" yaml:"name"`

	// Model is the model identifier passed to the provider.
	Model string `mapstructure:"model" yaml:"model"`

	// BaseURL overrides the provider endpoint. Required for "compatible".
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// APIKeyEnv overrides the environment variable consulted for the
	// API key. Empty means the provider's conventional variable
	// (OPENAI_API_KEY, GEMINI_API_KEY).
	APIKeyEnv string `mapstructure:"api_key_env" yaml:"api_key_env"`

	// TimeoutSeconds bounds a single provider request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return defaultProviderTimeout
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ReviewConfig controls review runs.
type ReviewConfig struct {
	// MaxProposals caps the number of proposals requested per file.
	MaxProposals int `mapstructure:"max_proposals" yaml:"max_proposals"`

	// Jobs is the number of files reviewed concurrently.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Extensions restricts reviewable files (lowercase, with leading dot).
	// Empty means "any file whose language can be detected".
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// SaveSessions persists each review to the session store.
	SaveSessions bool `mapstructure:"save_sessions" yaml:"save_sessions"`
}

// BackupsConfig controls backup behavior when applying proposals.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "none"
}

// ApplyConfig controls how proposals are written back to files.
type ApplyConfig struct {
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`
}

// StoreConfig locates the session store.
type StoreConfig struct {
	// Path is the SQLite database file. Empty means the XDG data
	// directory default ($XDG_DATA_HOME/gorevise/sessions.db).
	Path string `mapstructure:"path" yaml:"path"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// DebounceMS is the settle time before a changed file is re-reviewed.
	DebounceMS int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMS <= 0 {
		return defaultWatchDebounce
	}
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Config is the root configuration structure for gorevise.
type Config struct {
	// Provider selects and configures the generation service.
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`

	// Review controls review runs.
	Review ReviewConfig `mapstructure:"review" yaml:"review"`

	// Apply controls write-back behavior.
	Apply ApplyConfig `mapstructure:"apply" yaml:"apply"`

	// Store locates the session store.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Watch controls watch mode.
	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"format" yaml:"format"`

	// SeverityDefault is assigned to proposals that carry no severity.
	SeverityDefault string `mapstructure:"severity_default" yaml:"severity_default"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would be applied without writing.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// Yes auto-approves exact-anchor confirmations.
	Yes bool `mapstructure:"-" yaml:"-"`

	// NoSave disables session persistence for this run.
	NoSave bool `mapstructure:"-" yaml:"-"`

	// Strict makes warning-severity proposals affect the exit code.
	Strict bool `mapstructure:"-" yaml:"-"`
}

const (
	defaultProviderTimeout = 90 * time.Second
	defaultWatchDebounce   = 500 * time.Millisecond

	// DefaultMaxProposals is the proposal cap requested per file.
	DefaultMaxProposals = 10

	// DefaultJobs is the number of concurrent review workers.
	// Kept small: provider rate limits bite long before CPU does.
	DefaultJobs = 2
)

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:           ProviderOpenAI,
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 90,
		},
		Review: ReviewConfig{
			MaxProposals: DefaultMaxProposals,
			Jobs:         DefaultJobs,
			Ignore:       []string{"vendor/**", "node_modules/**", ".git/**"},
			SaveSessions: true,
		},
		Apply: ApplyConfig{
			Backups: BackupsConfig{
				Enabled: false,
				Mode:    "sidecar",
			},
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Format:          FormatText,
		SeverityDefault: string(SeverityInfo),
	}
}
