package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/analysis"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 90 // Width of table separators (same for both tables).
	categoryColWidth  = 30 // Width of the category column.
	fileColWidth      = 53 // Width of the file path column (wider for relative paths).
	numColWidth       = 7  // Width of numeric columns.
	warnColWidth      = 8  // Width of warnings column.
	scoreColWidth     = 6  // Width of the score column.
	maxFilePathLength = 51 // Maximum characters for file path before truncation.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Proposals == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No proposals"))
		return nil
	}

	r.renderCategoryTable(report.ByCategory)
	fmt.Fprintln(r.out)
	r.renderFileTable(report.ByFile)

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) renderCategoryTable(categories []analysis.CategoryAnalysis) {
	if len(categories) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Categories Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Category", categoryColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Rows
	for _, category := range categories {
		// Pad first, then style
		paddedName := padRight(category.Category, categoryColWidth)
		var styledName string
		switch {
		case category.Errors > 0:
			styledName = r.styles.TableErrorRow.Render(paddedName)
		case category.Warnings > 0:
			styledName = r.styles.TableWarnRow.Render(paddedName)
		default:
			styledName = paddedName
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			styledName,
			padLeft(strconv.Itoa(category.Proposals), numColWidth),
			padLeft(strconv.Itoa(category.Errors), numColWidth),
			padLeft(strconv.Itoa(category.Warnings), warnColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Score", scoreColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Rows
	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		// Pad first, then style
		paddedPath := padRight(path, fileColWidth)
		var styledPath string
		switch {
		case file.Errors > 0:
			styledPath = r.styles.TableErrorRow.Render(paddedPath)
		case file.Warnings > 0:
			styledPath = r.styles.TableWarnRow.Render(paddedPath)
		default:
			styledPath = paddedPath
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(file.Proposals), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
			padLeft(strconv.Itoa(file.Score), scoreColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	proposalWord := "proposals"
	if totals.Proposals == 1 {
		proposalWord = "proposal"
	}
	total := fmt.Sprintf("%d %s", totals.Proposals, proposalWord)

	// Severity breakdown
	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if len(severityParts) > 0 {
		total = fmt.Sprintf("%d %s (%s)", totals.Proposals, proposalWord, strings.Join(severityParts, ", "))
	}

	// Files with proposals
	fileWord := "files"
	if totals.FilesWithProposals == 1 {
		fileWord = "file"
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+total+fmt.Sprintf(" in %d %s", totals.FilesWithProposals, fileWord))
}
