package runner

import "github.com/yaklabco/gorevise/pkg/review"

// FileOutcome is the per-file result of a run.
type FileOutcome struct {
	// Path is the absolute path that was processed.
	Path string

	// Review holds the provider's result. Nil when the file was
	// skipped or errored.
	Review *review.Review

	// SourceHash is the hex SHA-256 of the content that was reviewed,
	// for staleness checks at apply time. Empty when the file was
	// never read.
	SourceHash string

	// SkipReason is set when the file was filtered out before any
	// provider call ("binary", "vendored", "generated", "too large").
	SkipReason string

	// Error is set when the file could not be processed.
	Error error
}

// Skipped reports whether the file was filtered out.
func (o FileOutcome) Skipped() bool {
	return o.SkipReason != ""
}

// Stats captures aggregate information about one run.
type Stats struct {
	// FilesDiscovered is how many files discovery found.
	FilesDiscovered int `json:"filesDiscovered"`

	// FilesProcessed is how many files produced a review.
	FilesProcessed int `json:"filesProcessed"`

	// FilesSkipped is how many files were filtered out.
	FilesSkipped int `json:"filesSkipped"`

	// FilesErrored is how many files failed.
	FilesErrored int `json:"filesErrored"`

	// FilesWithProposals is how many reviews came back non-empty.
	FilesWithProposals int `json:"filesWithProposals"`

	// ProposalsTotal counts proposals across all reviews.
	ProposalsTotal int `json:"proposalsTotal"`

	// ProposalsBySeverity maps severity to proposal count.
	ProposalsBySeverity map[string]int `json:"proposalsBySeverity"`

	// ProposalsByCategory maps category to proposal count.
	ProposalsByCategory map[string]int `json:"proposalsByCategory"`

	// MeanScore is the mean quality score over processed files.
	// Zero when nothing was processed.
	MeanScore float64 `json:"meanScore"`
}

// Result is the overall outcome of a run, files in path order.
type Result struct {
	Files []FileOutcome
	Stats Stats

	scoreSum int
}

// HasErrorProposals reports whether any proposal carries error severity.
func (r *Result) HasErrorProposals() bool {
	return r != nil && r.Stats.ProposalsBySeverity["error"] > 0
}

// HasProposals reports whether the run produced any proposals.
func (r *Result) HasProposals() bool {
	return r != nil && r.Stats.ProposalsTotal > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func newResult(capacity int) *Result {
	return &Result{
		Files: make([]FileOutcome, 0, capacity),
		Stats: Stats{
			ProposalsBySeverity: make(map[string]int),
			ProposalsByCategory: make(map[string]int),
		},
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Skipped() {
		r.Stats.FilesSkipped++
		return
	}
	if outcome.Review == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.scoreSum += outcome.Review.Score

	count := len(outcome.Review.Proposals)
	r.Stats.ProposalsTotal += count
	if count > 0 {
		r.Stats.FilesWithProposals++
	}

	for _, proposal := range outcome.Review.Proposals {
		r.Stats.ProposalsBySeverity[string(proposal.Severity)]++
		r.Stats.ProposalsByCategory[string(proposal.Category)]++
	}
}

func (r *Result) finalize() {
	if r.Stats.FilesProcessed > 0 {
		r.Stats.MeanScore = float64(r.scoreSum) / float64(r.Stats.FilesProcessed)
	}
}
