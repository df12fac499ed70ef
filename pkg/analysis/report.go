package analysis

import "time"

// Report contains pre-computed views of review results.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Proposals is the flat list for detailed output.
	Proposals []ProposalEntry `json:"proposals,omitempty"`

	// ByFile groups proposals by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByCategory groups proposals by category.
	ByCategory []CategoryAnalysis `json:"byCategory,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// ProposalEntry represents a single proposal in the report.
type ProposalEntry struct {
	FilePath        string `json:"filePath"`
	ID              string `json:"id"`
	Description     string `json:"description"`
	Severity        string `json:"severity"`
	Category        string `json:"category"`
	LineStart       int    `json:"lineStart"`
	LineEnd         int    `json:"lineEnd"`
	AnchorText      string `json:"anchorText,omitempty"`
	ReplacementText string `json:"replacementText,omitempty"`
	Deletion        bool   `json:"deletion"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files              int     `json:"filesChecked"`
	FilesWithProposals int     `json:"filesWithProposals"`
	FilesSkipped       int     `json:"filesSkipped"`
	FilesErrored       int     `json:"filesErrored"`
	Proposals          int     `json:"totalProposals"`
	Errors             int     `json:"errors"`
	Warnings           int     `json:"warnings"`
	Infos              int     `json:"infos"`
	MeanScore          float64 `json:"meanScore"`
}

// HasProposals returns true if any proposals were produced.
func (t Totals) HasProposals() bool {
	return t.Proposals > 0
}

// HasErrors returns true if any proposal carries error severity.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path       string   `json:"path"`
	Proposals  int      `json:"proposals"`
	Errors     int      `json:"errors"`
	Warnings   int      `json:"warnings"`
	Infos      int      `json:"infos"`
	Score      int      `json:"score"`
	Categories []string `json:"categories,omitempty"`
}

// CategoryAnalysis contains aggregated data for a single category.
type CategoryAnalysis struct {
	Category  string   `json:"category"`
	Proposals int      `json:"proposals"`
	Errors    int      `json:"errors"`
	Warnings  int      `json:"warnings"`
	Infos     int      `json:"infos"`
	Files     []string `json:"files,omitempty"`
}
