package configloader

import "github.com/yaklabco/gorevise/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	// Provider: merge individual fields
	if override.Provider.Name != "" {
		result.Provider.Name = override.Provider.Name
	}
	if override.Provider.Model != "" {
		result.Provider.Model = override.Provider.Model
	}
	if override.Provider.BaseURL != "" {
		result.Provider.BaseURL = override.Provider.BaseURL
	}
	if override.Provider.APIKeyEnv != "" {
		result.Provider.APIKeyEnv = override.Provider.APIKeyEnv
	}
	if override.Provider.TimeoutSeconds != 0 {
		result.Provider.TimeoutSeconds = override.Provider.TimeoutSeconds
	}

	// Review: merge individual fields
	if override.Review.MaxProposals != 0 {
		result.Review.MaxProposals = override.Review.MaxProposals
	}
	if override.Review.Jobs != 0 {
		result.Review.Jobs = override.Review.Jobs
	}

	// Slices: override replaces base entirely if non-nil
	if override.Review.Extensions != nil {
		result.Review.Extensions = override.Review.Extensions
	}
	if override.Review.Ignore != nil {
		result.Review.Ignore = override.Review.Ignore
	}

	// Booleans are tricky because false is the zero value: we can only
	// detect "true" being set, so a config file cannot unset a boolean
	// the defaults enable. SaveSessions defaults to true; the per-run
	// escape hatch is the CLI-only NoSave flag (or GOREVISE_NO_SAVE).
	if override.Review.SaveSessions {
		result.Review.SaveSessions = override.Review.SaveSessions
	}
	if override.Apply.Backups.Enabled {
		result.Apply.Backups.Enabled = override.Apply.Backups.Enabled
	}
	if override.Apply.Backups.Mode != "" {
		result.Apply.Backups.Mode = override.Apply.Backups.Mode
	}

	// Store and watch
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Watch.DebounceMS != 0 {
		result.Watch.DebounceMS = override.Watch.DebounceMS
	}

	// Output scalars
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.SeverityDefault != "" {
		result.SeverityDefault = override.SeverityDefault
	}

	// CLI-only booleans: true-only overrides, same caveat as above.
	if override.DryRun {
		result.DryRun = override.DryRun
	}
	if override.Yes {
		result.Yes = override.Yes
	}
	if override.NoSave {
		result.NoSave = override.NoSave
	}
	if override.Strict {
		result.Strict = override.Strict
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
