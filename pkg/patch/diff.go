package patch

import (
	"fmt"
	"strings"
)

// LineKind classifies a line within a diff hunk.
type LineKind int

const (
	// LineContext is an unchanged line shown for context.
	LineContext LineKind = iota

	// LineAdded is a line present only in the modified text.
	LineAdded

	// LineRemoved is a line present only in the original text.
	LineRemoved
)

// Line is a single line of a hunk.
type Line struct {
	Kind    LineKind
	Content string
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	// OriginalStart and OriginalCount address the hunk in the original
	// text (1-based line number and line count).
	OriginalStart int
	OriginalCount int

	// ModifiedStart and ModifiedCount address the hunk in the modified
	// text.
	ModifiedStart int
	ModifiedCount int

	Lines []Line
}

// Diff is a unified diff between two versions of a document. Dry-run
// application renders one of these instead of writing the file.
type Diff struct {
	// Path labels the diff headers.
	Path string

	Hunks []Hunk

	// Additions and Deletions count changed lines across all hunks.
	Additions int
	Deletions int
}

// diffContextLines is the number of context lines around each change.
const diffContextLines = 3

// GenerateDiff computes a unified diff from original to modified.
// Returns nil when the two texts are identical.
func GenerateDiff(path, original, modified string) *Diff {
	if original == modified {
		return nil
	}

	ops := diffOps(toLines(original), toLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Hunks: hunks}
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdded:
				diff.Additions++
			case LineRemoved:
				diff.Deletions++
			case LineContext:
			}
		}
	}
	return diff
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Header returns the "diff --git" style header line.
func (d *Diff) Header() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)

		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineContext:
				fmt.Fprintf(&builder, " %s\n", line.Content)
			case LineAdded:
				fmt.Fprintf(&builder, "+%s\n", line.Content)
			case LineRemoved:
				fmt.Fprintf(&builder, "-%s\n", line.Content)
			}
		}
	}

	return builder.String()
}

// FullString renders the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.Header() + "\n" + d.String()
}

// toLines splits text into lines without a trailing empty entry for a
// final newline.
func toLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffOp is one line-level operation in the edit script.
type diffOp struct {
	kind    LineKind
	content string
}

// diffOps derives the line-level edit script from an LCS of the two
// texts: lines on the common subsequence become context, everything
// else becomes a removal or an addition.
func diffOps(original, modified []string) []diffOp {
	common := commonLines(original, modified)

	var ops []diffOp
	origIdx, modIdx, commonIdx := 0, 0, 0

	for origIdx < len(original) || modIdx < len(modified) {
		onCommon := commonIdx < len(common) &&
			origIdx < len(original) && modIdx < len(modified) &&
			original[origIdx] == common[commonIdx] && modified[modIdx] == common[commonIdx]
		if onCommon {
			ops = append(ops, diffOp{kind: LineContext, content: original[origIdx]})
			origIdx++
			modIdx++
			commonIdx++
			continue
		}

		for origIdx < len(original) && (commonIdx >= len(common) || original[origIdx] != common[commonIdx]) {
			ops = append(ops, diffOp{kind: LineRemoved, content: original[origIdx]})
			origIdx++
		}
		for modIdx < len(modified) && (commonIdx >= len(common) || modified[modIdx] != common[commonIdx]) {
			ops = append(ops, diffOp{kind: LineAdded, content: modified[modIdx]})
			modIdx++
		}
	}

	return ops
}

// groupHunks splits the edit script into hunks, merging changes whose
// context windows would run together.
func groupHunks(ops []diffOp) []Hunk {
	type window struct{ start, end int }

	var changes []window
	open := false
	openStart := 0
	for i, op := range ops {
		if op.kind != LineContext {
			if !open {
				openStart = i
				open = true
			}
			continue
		}
		if open {
			changes = append(changes, window{openStart, i})
			open = false
		}
	}
	if open {
		changes = append(changes, window{openStart, len(ops)})
	}
	if len(changes) == 0 {
		return nil
	}

	var hunks []Hunk
	for i := 0; i < len(changes); {
		j := i + 1
		for j < len(changes) && changes[j].start-changes[j-1].end <= diffContextLines*2 {
			j++
		}
		hunks = append(hunks, buildHunk(ops, changes[i].start, changes[j-1].end))
		i = j
	}
	return hunks
}

// buildHunk assembles one hunk covering ops[changeStart:changeEnd] plus
// surrounding context.
func buildHunk(ops []diffOp, changeStart, changeEnd int) Hunk {
	start := max(changeStart-diffContextLines, 0)
	end := min(changeEnd+diffContextLines, len(ops))

	hunk := Hunk{OriginalStart: 1, ModifiedStart: 1}
	for i := range start {
		if ops[i].kind != LineAdded {
			hunk.OriginalStart++
		}
		if ops[i].kind != LineRemoved {
			hunk.ModifiedStart++
		}
	}

	for i := start; i < end; i++ {
		hunk.Lines = append(hunk.Lines, Line{Kind: ops[i].kind, Content: ops[i].content})
		switch ops[i].kind {
		case LineContext:
			hunk.OriginalCount++
			hunk.ModifiedCount++
		case LineRemoved:
			hunk.OriginalCount++
		case LineAdded:
			hunk.ModifiedCount++
		}
	}

	return hunk
}

// commonLines computes a longest common subsequence of the two line
// slices with the usual dynamic-programming table.
func commonLines(original, modified []string) []string {
	origLen, modLen := len(original), len(modified)
	if origLen == 0 || modLen == 0 {
		return nil
	}

	table := make([][]int, origLen+1)
	for i := range table {
		table[i] = make([]int, modLen+1)
	}
	for row := 1; row <= origLen; row++ {
		for col := 1; col <= modLen; col++ {
			if original[row-1] == modified[col-1] {
				table[row][col] = table[row-1][col-1] + 1
			} else {
				table[row][col] = max(table[row-1][col], table[row][col-1])
			}
		}
	}

	length := table[origLen][modLen]
	if length == 0 {
		return nil
	}

	out := make([]string, length)
	row, col := origLen, modLen
	for row > 0 && col > 0 {
		switch {
		case original[row-1] == modified[col-1]:
			length--
			out[length] = original[row-1]
			row--
			col--
		case table[row-1][col] > table[row][col-1]:
			row--
		default:
			col--
		}
	}

	return out
}
