package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gorevise/pkg/runner"
)

// severityInfo is the fallback for proposals with no severity. Matches
// how proposal normalization treats unknown values.
const severityInfo = "info"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileReview `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileReview represents a single file's review.
type JSONFileReview struct {
	Path       string         `json:"path"`
	Language   string         `json:"language,omitempty"`
	Provider   string         `json:"provider,omitempty"`
	Model      string         `json:"model,omitempty"`
	Score      int            `json:"score"`
	Summary    string         `json:"summary,omitempty"`
	Proposals  []JSONProposal `json:"proposals"`
	SkipReason string         `json:"skipReason,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// JSONProposal represents a single proposal.
type JSONProposal struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	Severity        string `json:"severity"`
	Category        string `json:"category"`
	AnchorText      string `json:"anchorText"`
	ReplacementText string `json:"replacementText"`
	LineStart       int    `json:"lineStart"`
	LineEnd         int    `json:"lineEnd"`
	Deletion        bool   `json:"deletion"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked       int            `json:"filesChecked"`
	FilesWithProposals int            `json:"filesWithProposals"`
	FilesSkipped       int            `json:"filesSkipped"`
	FilesErrored       int            `json:"filesErrored"`
	TotalProposals     int            `json:"totalProposals"`
	BySeverity         map[string]int `json:"bySeverity"`
	ByCategory         map[string]int `json:"byCategory"`
	MeanScore          float64        `json:"meanScore"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalProposals, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileReview, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
			ByCategory: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileReview, 0, len(result.Files))
	}

	scoreSum, reviewed := 0, 0

	for _, file := range result.Files {
		fileReview := JSONFileReview{
			Path:      file.Path,
			Proposals: make([]JSONProposal, 0),
		}

		if file.Error != nil {
			fileReview.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if file.Skipped() {
			fileReview.SkipReason = file.SkipReason
			output.Summary.FilesSkipped++
		}

		if file.Review != nil {
			fileReview.Language = file.Review.Language
			fileReview.Provider = file.Review.Provider
			fileReview.Model = file.Review.Model
			fileReview.Score = file.Review.Score
			fileReview.Summary = file.Review.Summary

			scoreSum += file.Review.Score
			reviewed++

			for _, p := range file.Review.Proposals {
				fileReview.Proposals = append(fileReview.Proposals, JSONProposal{
					ID:              p.ID,
					Description:     p.Description,
					Severity:        string(p.Severity),
					Category:        string(p.Category),
					AnchorText:      p.AnchorText,
					ReplacementText: p.ReplacementText,
					LineStart:       p.LineStart,
					LineEnd:         p.LineEnd,
					Deletion:        p.IsDeletion(),
				})
				output.Summary.TotalProposals++

				severity := string(p.Severity)
				if severity == "" {
					severity = severityInfo
				}
				output.Summary.BySeverity[severity]++
				output.Summary.ByCategory[string(p.Category)]++
			}
		}

		if len(fileReview.Proposals) > 0 {
			output.Summary.FilesWithProposals++
		}

		output.Files = append(output.Files, fileReview)
		output.Summary.FilesChecked++
	}

	if reviewed > 0 {
		output.Summary.MeanScore = float64(scoreSum) / float64(reviewed)
	}

	return output
}
