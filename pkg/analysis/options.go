package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by proposal count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortBySeverity sorts by severity (errors first).
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeProposals includes the flat proposal list.
	IncludeProposals bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByCategory includes the per-category analysis.
	IncludeByCategory bool

	// SortBy specifies how to sort ByFile and ByCategory.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeProposals:  true,
		IncludeByFile:     true,
		IncludeByCategory: true,
		SortBy:            SortByCount,
		SortDesc:          true,
	}
}
