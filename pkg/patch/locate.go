package patch

import (
	"strings"

	"github.com/yaklabco/gorevise/pkg/document"
)

// Locate finds the first occurrence of anchor as an exact substring of
// the document's current text. Matching is single-shot and literal: no
// fuzzy or whitespace-normalized comparison, so a stale anchor behaves
// exactly like one that never existed. An empty anchor never matches.
func Locate(doc *document.Document, anchor string) (Span, bool) {
	if doc == nil || anchor == "" {
		return Span{}, false
	}

	idx := strings.Index(doc.Content(), anchor)
	if idx < 0 {
		return Span{}, false
	}
	return Span{Start: idx, End: idx + len(anchor)}, true
}

// LineFallback resolves a 1-indexed inclusive line range to the
// whole-line span from the start of lineStart to the start of the line
// after lineEnd. Out-of-range lines clamp to the nearest valid bound;
// the returned flag reports whether any clamping happened so callers
// can surface the anomaly. The fallback is imprecise and must only be
// taken behind explicit confirmation.
func LineFallback(doc *document.Document, lineStart, lineEnd int) (Span, bool) {
	if doc == nil || doc.LineCount() == 0 {
		return Span{}, true
	}

	clamped := false
	lineCount := doc.LineCount()

	if lineStart < 1 {
		lineStart = 1
		clamped = true
	}
	if lineStart > lineCount {
		lineStart = lineCount
		clamped = true
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
		clamped = true
	}
	if lineEnd > lineCount {
		lineEnd = lineCount
		clamped = true
	}

	startInfo, _ := doc.Line(lineStart)
	endInfo, _ := doc.Line(lineEnd)

	return Span{Start: startInfo.StartOffset, End: endInfo.EndOffset}, clamped
}
