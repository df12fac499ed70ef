package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gorevise/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 proposals (3 errors, 9 warnings) in 4 files, mean score 78".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.ProposalsTotal == 0 {
		msg := s.Success.Render("No proposals") + s.Dim.Render(fmt.Sprintf(" (%d files reviewed)", stats.FilesProcessed))
		if stats.FilesSkipped > 0 {
			msg += s.Dim.Render(fmt.Sprintf(", %d skipped", stats.FilesSkipped))
		}
		return msg + "\n"
	}

	var parts []string

	// Total proposals
	proposalWord := "proposals"
	if stats.ProposalsTotal == 1 {
		proposalWord = "proposal"
	}

	// Build severity breakdown
	var severityParts []string
	if errors := stats.ProposalsBySeverity["error"]; errors > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d errors", errors)))
	}
	if warnings := stats.ProposalsBySeverity["warning"]; warnings > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d warnings", warnings)))
	}
	if infos := stats.ProposalsBySeverity["info"]; infos > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", infos)))
	}

	// Main count with severity breakdown
	if len(severityParts) > 0 {
		parts = append(parts, fmt.Sprintf("%d %s (%s)", stats.ProposalsTotal, proposalWord, strings.Join(severityParts, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s", stats.ProposalsTotal, proposalWord))
	}

	// Files with proposals
	fileWord := wordFiles
	if stats.FilesWithProposals == 1 {
		fileWord = wordFile
	}
	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithProposals, fileWord))

	// Mean quality score
	if stats.FilesProcessed > 0 {
		parts = append(parts, fmt.Sprintf("mean score %.0f", stats.MeanScore))
	}

	// Errored files
	if stats.FilesErrored > 0 {
		erroredWord := wordFiles
		if stats.FilesErrored == 1 {
			erroredWord = wordFile
		}
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s errored", stats.FilesErrored, erroredWord)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files reviewed:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithProposals > 0 {
		builder.WriteString("  With proposals:    " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithProposals)) + "\n")
	}

	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Proposals by severity
	builder.WriteString("  Total proposals:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.ProposalsTotal)) + "\n")

	if errors := stats.ProposalsBySeverity["error"]; errors > 0 {
		builder.WriteString("    Errors:          " +
			s.Error.Render(strconv.Itoa(errors)) + "\n")
	}
	if warnings := stats.ProposalsBySeverity["warning"]; warnings > 0 {
		builder.WriteString("    Warnings:        " +
			s.Warning.Render(strconv.Itoa(warnings)) + "\n")
	}
	if infos := stats.ProposalsBySeverity["info"]; infos > 0 {
		builder.WriteString("    Info:            " +
			s.Info.Render(strconv.Itoa(infos)) + "\n")
	}

	if stats.FilesProcessed > 0 {
		builder.WriteString("  Mean score:        " +
			s.SummaryValue.Render(fmt.Sprintf("%.0f", stats.MeanScore)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.ProposalsBySeverity["error"] > 0:
		builder.WriteString(s.Failure.Render("Review found errors"))
	case stats.ProposalsBySeverity["warning"] > 0:
		builder.WriteString(s.Warning.Render("Review completed with warnings"))
	case stats.ProposalsTotal > 0:
		builder.WriteString(s.Success.Render("Review completed"))
	default:
		builder.WriteString(s.Success.Render("Review clean"))
	}
	builder.WriteString("\n")

	return builder.String()
}
