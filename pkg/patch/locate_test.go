package patch_test

import (
	"testing"

	"github.com/yaklabco/gorevise/pkg/document"
	"github.com/yaklabco/gorevise/pkg/patch"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		anchor     string
		expected   patch.Span
		expectedOK bool
	}{
		{
			name:       "anchor at start",
			content:    "eval(input); done();",
			anchor:     "eval(input)",
			expected:   patch.Span{Start: 0, End: 11},
			expectedOK: true,
		},
		{
			name:       "anchor in middle",
			content:    "x = 1\ny = 2\nz = 3",
			anchor:     "y = 2",
			expected:   patch.Span{Start: 6, End: 11},
			expectedOK: true,
		},
		{
			name:       "first occurrence wins",
			content:    "foo foo foo",
			anchor:     "foo",
			expected:   patch.Span{Start: 0, End: 3},
			expectedOK: true,
		},
		{
			name:       "multi-line anchor",
			content:    "a\nb\nc",
			anchor:     "b\nc",
			expected:   patch.Span{Start: 2, End: 5},
			expectedOK: true,
		},
		{
			name:       "anchor is entire content",
			content:    "whole",
			anchor:     "whole",
			expected:   patch.Span{Start: 0, End: 5},
			expectedOK: true,
		},
		{
			name:       "missing anchor",
			content:    "some text",
			anchor:     "absent",
			expectedOK: false,
		},
		{
			name:       "stale anchor with different whitespace",
			content:    "if (x)  {",
			anchor:     "if (x) {",
			expectedOK: false,
		},
		{
			name:       "empty anchor never matches",
			content:    "anything",
			anchor:     "",
			expectedOK: false,
		},
		{
			name:       "empty document",
			content:    "",
			anchor:     "x",
			expectedOK: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := document.New("test.go", testCase.content)
			span, ok := patch.Locate(doc, testCase.anchor)

			if ok != testCase.expectedOK {
				t.Fatalf("Locate: expected ok=%v, got ok=%v", testCase.expectedOK, ok)
			}
			if ok && span != testCase.expected {
				t.Errorf("Locate: expected %+v, got %+v", testCase.expected, span)
			}
		})
	}
}

func TestLocate_NilDocument(t *testing.T) {
	t.Parallel()

	if _, ok := patch.Locate(nil, "x"); ok {
		t.Error("expected no match on nil document")
	}
}

func TestLineFallback(t *testing.T) {
	t.Parallel()

	// Lines: 1 [0,4), 2 [4,8), 3 [8,11).
	doc := document.New("test.go", "aaa\nbbb\nccc")

	tests := []struct {
		name            string
		lineStart       int
		lineEnd         int
		expected        patch.Span
		expectedClamped bool
	}{
		{"single line", 1, 1, patch.Span{Start: 0, End: 4}, false},
		{"line range", 2, 3, patch.Span{Start: 4, End: 11}, false},
		{"full document", 1, 3, patch.Span{Start: 0, End: 11}, false},
		{"end past document clamps", 1, 99, patch.Span{Start: 0, End: 11}, true},
		{"start below one clamps", 0, 2, patch.Span{Start: 0, End: 8}, true},
		{"start past document clamps to last line", 99, 99, patch.Span{Start: 8, End: 11}, true},
		{"inverted range clamps to start line", 3, 1, patch.Span{Start: 8, End: 11}, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			span, clamped := patch.LineFallback(doc, testCase.lineStart, testCase.lineEnd)
			if span != testCase.expected {
				t.Errorf("LineFallback: expected span %+v, got %+v", testCase.expected, span)
			}
			if clamped != testCase.expectedClamped {
				t.Errorf("LineFallback: expected clamped=%v, got %v", testCase.expectedClamped, clamped)
			}
		})
	}
}

func TestLineFallback_EmptyDocument(t *testing.T) {
	t.Parallel()

	doc := document.New("test.go", "")
	span, clamped := patch.LineFallback(doc, 1, 5)

	if span != (patch.Span{}) {
		t.Errorf("expected zero span, got %+v", span)
	}
	if !clamped {
		t.Error("expected clamped on empty document")
	}
}

func TestLineFallback_CoversTrailingNewline(t *testing.T) {
	t.Parallel()

	// Replacing a whole line must consume its newline so the
	// replacement text controls the final layout.
	doc := document.New("test.go", "keep\nreplace me\nkeep too\n")

	span, clamped := patch.LineFallback(doc, 2, 2)
	if clamped {
		t.Fatal("unexpected clamping")
	}

	if err := doc.Replace(span.Start, span.End, "replaced\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content() != "keep\nreplaced\nkeep too\n" {
		t.Errorf("unexpected content: %q", doc.Content())
	}
}
