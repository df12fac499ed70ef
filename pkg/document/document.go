// Package document provides the mutable text buffer that review proposals
// are applied against. A Document holds the full text, a line index for
// offset/line conversion, and a revision counter bumped on every edit.
// Edits flow through the Editor interface so hosts can substitute their
// own write primitive.
package document

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for caller-contract violations.
var (
	// ErrNilDocument is returned when an operation receives a nil document.
	ErrNilDocument = errors.New("nil document")

	// ErrInvalidSpan is returned when a replacement span is out of bounds.
	ErrInvalidSpan = errors.New("invalid span")
)

// LineInfo holds metadata for a single line in a document.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of document).
	EndOffset int
}

// Document is a mutable text buffer with byte-offset addressing and a
// 1-based line index. The index is rebuilt after every replacement so
// offsets and line numbers always describe the current text.
type Document struct {
	path     string
	content  string
	lines    []LineInfo
	revision int
}

// New creates a Document from content. Path may be empty for in-memory text.
func New(path, content string) *Document {
	return &Document{
		path:    path,
		content: content,
		lines:   buildLines(content),
	}
}

// Path returns the document path (may be empty).
func (d *Document) Path() string {
	return d.path
}

// Content returns the full current text.
func (d *Document) Content() string {
	return d.content
}

// Len returns the length of the current text in bytes.
func (d *Document) Len() int {
	return len(d.content)
}

// Revision returns the number of replacements applied so far.
func (d *Document) Revision() int {
	return d.revision
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns metadata for a 1-based line number.
// Returns (LineInfo{}, false) if the line number is out of range.
func (d *Document) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(d.lines) {
		return LineInfo{}, false
	}
	return d.lines[line-1], true
}

// LineContent returns the text of a 1-based line number, excluding the newline.
// Returns ("", false) if the line number is out of range.
func (d *Document) LineContent(line int) (string, bool) {
	info, ok := d.Line(line)
	if !ok {
		return "", false
	}
	return d.content[info.StartOffset:info.NewlineStart], true
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || len(d.lines) == 0 {
		return 0, 0
	}

	// Handle offset at or past end of content.
	if offset >= len(d.content) {
		lastLine := d.lines[len(d.lines)-1]
		return len(d.lines), offset - lastLine.StartOffset + 1
	}

	// Binary search to find the line containing the offset.
	lineIdx := sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i].EndOffset > offset
	})

	if lineIdx >= len(d.lines) {
		lineIdx = len(d.lines) - 1
	}

	info := d.lines[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}

	// 1-based line and column.
	return lineIdx + 1, offset - info.StartOffset + 1
}

// Replace substitutes the half-open byte range [start, end) with text,
// rebuilds the line index, and bumps the revision counter.
func (d *Document) Replace(start, end int, text string) error {
	if start < 0 || end < start || end > len(d.content) {
		return fmt.Errorf("replace [%d,%d) in %d bytes: %w", start, end, len(d.content), ErrInvalidSpan)
	}

	d.content = d.content[:start] + text + d.content[end:]
	d.lines = buildLines(d.content)
	d.revision++

	return nil
}

// buildLines constructs line metadata from document content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func buildLines(content string) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		if content[idx] == '\n' {
			// Check for CRLF.
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}

			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Handle last line (may not have trailing newline).
	if lineStart <= len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}
