package patch

// Tracker records the spans committed by applied edits within one batch
// and rejects new edits that would overlap them. Committed spans are
// kept in current-document coordinates: after every applied edit the
// set is shifted by the edit's size delta, so every overlap comparison
// happens in the same coordinate space as the freshly resolved span.
type Tracker struct {
	committed []Span
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// WouldOverlap reports whether span shares at least one byte with any
// committed span.
func (t *Tracker) WouldOverlap(span Span) bool {
	for _, c := range t.committed {
		if c.Overlaps(span) {
			return true
		}
	}
	return false
}

// Commit records a span as applied.
func (t *Tracker) Commit(span Span) {
	t.committed = append(t.committed, span)
}

// ShiftAfter moves every committed span positioned at or after the
// edited region by delta, keeping the set aligned with the document
// after a replacement changed its length. Spans before the edited
// region keep their offsets.
func (t *Tracker) ShiftAfter(edited Span, delta int) {
	if delta == 0 {
		return
	}
	for i := range t.committed {
		if t.committed[i].Start >= edited.End {
			t.committed[i] = t.committed[i].shift(delta)
		}
	}
}

// Count returns the number of committed spans.
func (t *Tracker) Count() int {
	return len(t.committed)
}

// Reset clears all committed spans for the next batch.
func (t *Tracker) Reset() {
	t.committed = t.committed[:0]
}
