package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorevise/pkg/patch"
	"github.com/yaklabco/gorevise/pkg/review"
)

// Status marks for the apply outcome list.
const (
	markApplied  = "✓"
	markNotFound = "?"
	markSkipped  = "~"
	markFailed   = "✗"
	markDeclined = "-"
)

// FormatOutcome formats one apply outcome for terminal output. The
// proposal supplies the human-readable description; outcomes only carry
// the proposal ID.
func (s *Styles) FormatOutcome(outcome patch.Outcome, proposal review.Proposal) string {
	var mark, detail string

	switch outcome.Status {
	case patch.StatusApplied:
		mark = s.Success.Render(markApplied)
		if outcome.Method == patch.MethodLineRange {
			detail = "line fallback"
			if outcome.Clamped {
				detail = "line fallback, clamped"
			}
		}
	case patch.StatusNotFound:
		mark = s.Warning.Render(markNotFound)
		detail = "anchor not found"
	case patch.StatusSkippedOverlap:
		mark = s.Warning.Render(markSkipped)
		detail = "overlaps an earlier edit"
	case patch.StatusFailed:
		mark = s.Failure.Render(markFailed)
		if outcome.Err != nil {
			detail = outcome.Err.Error()
		}
	case patch.StatusDeclined:
		mark = s.Dim.Render(markDeclined)
		detail = "declined"
	default:
		mark = string(outcome.Status)
	}

	line := fmt.Sprintf("  %s %s", mark, s.Description.Render(proposal.Description))
	if detail != "" {
		line += "  " + s.Dim.Render(detail)
	}
	return line + "\n"
}

// FormatApplySummary formats batch apply counts as a single line.
// All four counts always appear so scripted output stays columnar.
func (s *Styles) FormatApplySummary(result *patch.BatchResult) string {
	applied := fmt.Sprintf("%d applied", result.Applied)
	if result.Applied > 0 {
		applied = s.Success.Render(applied)
	}

	notFound := fmt.Sprintf("%d not found", result.NotFound)
	if result.NotFound > 0 {
		notFound = s.Warning.Render(notFound)
	}

	skipped := fmt.Sprintf("%d skipped", result.SkippedOverlap)
	if result.SkippedOverlap > 0 {
		skipped = s.Warning.Render(skipped)
	}

	failed := fmt.Sprintf("%d failed", result.Failed)
	if result.Failed > 0 {
		failed = s.Failure.Render(failed)
	}

	return strings.Join([]string{applied, notFound, skipped, failed}, ", ") + "\n"
}
