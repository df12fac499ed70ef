package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/runner"
)

// TextReporter formats results as styled terminal output, grouped by
// file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to review."))
		}
		return 0, nil
	}

	var total int

	for _, file := range result.Files {
		// Handle file errors
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Skipped() {
			if r.opts.ShowSkipped {
				fmt.Fprintf(r.bw, "%s: %s\n",
					r.styles.FilePath.Render(file.Path),
					r.styles.Dim.Render("skipped ("+file.SkipReason+")"),
				)
			}
			continue
		}

		if file.Review == nil || len(file.Review.Proposals) == 0 {
			continue
		}

		proposals := file.Review.Proposals

		// File header
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(proposals), file.Review.Score))

		// Model's overall assessment
		if file.Review.Summary != "" {
			fmt.Fprintln(r.bw, "  "+r.styles.Dim.Render(file.Review.Summary))
		}

		for i := range proposals {
			fmt.Fprint(r.bw, r.styles.FormatProposal(&proposals[i], r.opts.ShowPreview))
			total++
		}

		// Blank line between files
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
