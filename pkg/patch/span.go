// Package patch locates edit proposals in a document and applies them,
// one at a time with confirmation or as a bottom-up batch. Application
// is anchor-first: a proposal's anchor text is matched exactly against
// the current document text, and the advisory line range is only
// consulted on an explicitly confirmed fallback path.
package patch

// Span is a half-open byte range [Start, End) in the current document.
type Span struct {
	// Start is the byte index where the span begins (inclusive).
	Start int

	// End is the byte index where the span ends (exclusive).
	End int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
// Spans that merely touch at an endpoint do not overlap, and a
// zero-width span covers no bytes so it never overlaps anything.
func (s Span) Overlaps(other Span) bool {
	if s.Len() == 0 || other.Len() == 0 {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// shift returns the span moved by delta bytes.
func (s Span) shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}
