package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/patch"
)

// DiffPrinter renders unified diffs in GitHub style. Dry-run apply uses
// it to show what would change without writing anything.
type DiffPrinter struct {
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffPrinter creates a new diff printer.
func NewDiffPrinter(opts Options) *DiffPrinter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffPrinter{
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Print outputs a single file's diff with formatting. Nil or empty
// diffs print nothing.
func (p *DiffPrinter) Print(diff *patch.Diff) {
	if !diff.HasChanges() {
		return
	}

	// Use relative path for display if possible.
	displayPath := relativePath(diff.Path)

	// Git-style header: "diff --git a/file b/file"
	header := fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)
	fmt.Fprintln(p.out, p.styles.DiffHeader.Render(header))

	// Write --- and +++ headers with relative path.
	fmt.Fprintln(p.out, p.styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(p.out, p.styles.DiffAdd.Render("+++ b/"+displayPath))

	// Colorize the hunk content (skip the --- and +++ lines from String()).
	lines := strings.Split(diff.String(), "\n")
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		p.printLine(line)
	}

	fmt.Fprintln(p.out) // Blank line between files
}

// PrintSummary writes a git-style change summary line.
func (p *DiffPrinter) PrintSummary(files, additions, deletions int) {
	var parts []string

	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	if additions > 0 {
		insertionWord := "insertions"
		if additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, p.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, insertionWord)))
	}

	if deletions > 0 {
		deletionWord := "deletions"
		if deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, p.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, deletionWord)))
	}

	fmt.Fprintln(p.out, strings.Join(parts, ", "))
}

// printLine formats a single diff line with color.
func (p *DiffPrinter) printLine(line string) {
	var styled string

	switch {
	case strings.HasPrefix(line, "@@"):
		styled = p.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		styled = p.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		styled = p.styles.DiffRemove.Render(line)
	default:
		styled = p.styles.DiffContext.Render(line)
	}

	fmt.Fprintln(p.out, styled)
}

// relativePath converts an absolute path to a relative path from the current directory.
// If the relative path would require too many "../" traversals, use the basename instead.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return filepath.Base(path)
	}
	// If relative path has too many parent traversals, just use basename.
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}
