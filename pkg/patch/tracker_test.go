package patch_test

import (
	"testing"

	"github.com/yaklabco/gorevise/pkg/patch"
)

func TestTracker_WouldOverlap(t *testing.T) {
	t.Parallel()

	tracker := patch.NewTracker()

	if tracker.WouldOverlap(patch.Span{Start: 0, End: 10}) {
		t.Error("empty tracker should not report overlap")
	}

	tracker.Commit(patch.Span{Start: 10, End: 20})

	tests := []struct {
		name     string
		span     patch.Span
		expected bool
	}{
		{"before committed", patch.Span{Start: 0, End: 5}, false},
		{"touching committed start", patch.Span{Start: 5, End: 10}, false},
		{"sharing first byte", patch.Span{Start: 5, End: 11}, true},
		{"inside committed", patch.Span{Start: 12, End: 15}, true},
		{"touching committed end", patch.Span{Start: 20, End: 25}, false},
		{"after committed", patch.Span{Start: 21, End: 30}, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := tracker.WouldOverlap(testCase.span); got != testCase.expected {
				t.Errorf("WouldOverlap(%+v): expected %v, got %v", testCase.span, testCase.expected, got)
			}
		})
	}
}

func TestTracker_ShiftAfter(t *testing.T) {
	t.Parallel()

	t.Run("spans after the edit move by delta", func(t *testing.T) {
		t.Parallel()

		tracker := patch.NewTracker()
		tracker.Commit(patch.Span{Start: 10, End: 20})

		// An edit at [0,5) grew the document by 3 bytes.
		tracker.ShiftAfter(patch.Span{Start: 0, End: 5}, 3)

		// The committed span now sits at [13,23).
		if tracker.WouldOverlap(patch.Span{Start: 10, End: 13}) {
			t.Error("span touching shifted start should not overlap")
		}
		if !tracker.WouldOverlap(patch.Span{Start: 10, End: 14}) {
			t.Error("span crossing shifted start should overlap")
		}
		if !tracker.WouldOverlap(patch.Span{Start: 22, End: 25}) {
			t.Error("span crossing shifted end should overlap")
		}
		if tracker.WouldOverlap(patch.Span{Start: 23, End: 25}) {
			t.Error("span touching shifted end should not overlap")
		}
	})

	t.Run("negative delta shrinks positions", func(t *testing.T) {
		t.Parallel()

		tracker := patch.NewTracker()
		tracker.Commit(patch.Span{Start: 10, End: 12})

		tracker.ShiftAfter(patch.Span{Start: 0, End: 4}, -4)

		if !tracker.WouldOverlap(patch.Span{Start: 6, End: 8}) {
			t.Error("expected committed span at [6,8) after shift")
		}
		if tracker.WouldOverlap(patch.Span{Start: 10, End: 12}) {
			t.Error("old position should no longer overlap")
		}
	})

	t.Run("spans before the edit stay put", func(t *testing.T) {
		t.Parallel()

		tracker := patch.NewTracker()
		tracker.Commit(patch.Span{Start: 2, End: 4})

		tracker.ShiftAfter(patch.Span{Start: 6, End: 9}, 5)

		if !tracker.WouldOverlap(patch.Span{Start: 2, End: 4}) {
			t.Error("span before the edit must not move")
		}
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		t.Parallel()

		tracker := patch.NewTracker()
		tracker.Commit(patch.Span{Start: 5, End: 8})

		tracker.ShiftAfter(patch.Span{Start: 0, End: 2}, 0)

		if !tracker.WouldOverlap(patch.Span{Start: 5, End: 8}) {
			t.Error("expected committed span unchanged")
		}
	})
}

func TestTracker_ZeroWidthCommit(t *testing.T) {
	t.Parallel()

	// A committed deletion occupies no bytes and must not block
	// neighbors that merely touch the deletion point.
	tracker := patch.NewTracker()
	tracker.Commit(patch.Span{Start: 7, End: 7})

	if tracker.WouldOverlap(patch.Span{Start: 0, End: 7}) {
		t.Error("span ending at deletion point should not overlap")
	}
	if tracker.WouldOverlap(patch.Span{Start: 7, End: 12}) {
		t.Error("span starting at deletion point should not overlap")
	}
	if tracker.WouldOverlap(patch.Span{Start: 5, End: 9}) {
		t.Error("zero-width commit covers no bytes and should not overlap")
	}
}

func TestTracker_Reset(t *testing.T) {
	t.Parallel()

	tracker := patch.NewTracker()
	tracker.Commit(patch.Span{Start: 0, End: 5})
	tracker.Commit(patch.Span{Start: 10, End: 15})

	if tracker.Count() != 2 {
		t.Fatalf("expected 2 committed spans, got %d", tracker.Count())
	}

	tracker.Reset()

	if tracker.Count() != 0 {
		t.Errorf("expected 0 committed spans after reset, got %d", tracker.Count())
	}
	if tracker.WouldOverlap(patch.Span{Start: 0, End: 20}) {
		t.Error("reset tracker should not report overlap")
	}
}
