package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/review"
)

// previewMaxLines caps how many anchor and replacement lines the edit
// preview shows per side.
const previewMaxLines = 3

const previewIndent = "    "

// FormatProposal formats a single proposal for terminal output. The
// short id is shown so users can name proposals in apply --proposals.
func (s *Styles) FormatProposal(p *review.Proposal, showPreview bool) string {
	var builder strings.Builder

	location := s.Location.Render(formatLineRange(p.LineStart, p.LineEnd))
	severity := s.FormatSeverity(p.Severity)
	category := s.Category.Render("(" + string(p.Category) + ")")

	// Main line: lines  severity  description  (category)  [id]
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s  %s\n",
		location,
		severity,
		s.Description.Render(p.Description),
		category,
		s.ProposalID.Render("["+shortID(p.ID)+"]"),
	))

	if showPreview {
		builder.WriteString(s.FormatEditPreview(p.AnchorText, p.ReplacementText))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatEditPreview renders the anchor and replacement as removed and
// added lines, truncated to keep one proposal a few lines tall.
func (s *Styles) FormatEditPreview(anchor, replacement string) string {
	var builder strings.Builder

	writePreviewSide(&builder, anchor, "- ", s.DiffRemove, s.Dim)
	writePreviewSide(&builder, replacement, "+ ", s.DiffAdd, s.Dim)

	return builder.String()
}

func writePreviewSide(builder *strings.Builder, text, prefix string, style, dim lipgloss.Style) {
	lines := previewLines(text)
	shown := lines
	if len(shown) > previewMaxLines {
		shown = shown[:previewMaxLines]
	}
	for _, line := range shown {
		builder.WriteString(previewIndent + style.Render(prefix+line) + "\n")
	}
	if len(lines) > previewMaxLines {
		builder.WriteString(previewIndent + dim.Render(fmt.Sprintf("… %d more lines", len(lines)-previewMaxLines)) + "\n")
	}
}

// previewLines splits preview text into lines, dropping the trailing
// empty line a final newline produces. Empty text previews as nothing.
func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, proposalCount, score int) string {
	header := s.FilePath.Render(path)
	if proposalCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d proposals, score %d)", proposalCount, score))
	}
	return header
}

// formatLineRange renders a 1-based inclusive line range, collapsing
// single-line ranges to one number.
func formatLineRange(start, end int) string {
	if end <= start {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// shortID truncates UUID-length proposal ids to their first group for
// display. Apply accepts the prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
