package review

import "strings"

// Score penalties and caps.
const (
	longLineLimit       = 120
	longLinePenaltyCap  = 20
	trailingPenaltyCap  = 10
	markerPenaltyCap    = 15
	mixedIndentPenalty  = 10
	hugeFileLines       = 1000
	largeFileLines      = 500
	hugeFilePenalty     = 10
	largeFilePenalty    = 5
	denseRunLimit       = 80
	longRunLimit        = 40
	denseRunPenalty     = 10
	longRunPenalty      = 5
)

// Score rates source quality from 0 (worst) to 100 (best) using cheap
// mechanical signals: overlong lines, trailing whitespace, TODO/FIXME
// density, mixed indentation, file length, and long unbroken blocks.
// It is deterministic and needs no provider call, so review output
// always carries a score even when the model returns nothing usable.
func Score(source string) int {
	if strings.TrimSpace(source) == "" {
		return 100
	}

	lines := strings.Split(source, "\n")

	score := 100
	score -= longLinePenalty(lines)
	score -= trailingWhitespacePenalty(lines)
	score -= markerPenalty(source)
	score -= indentationPenalty(lines)
	score -= lengthPenalty(lines)
	score -= runPenalty(lines)

	if score < 0 {
		score = 0
	}
	return score
}

func longLinePenalty(lines []string) int {
	count := 0
	for _, line := range lines {
		if len(line) > longLineLimit {
			count++
		}
	}
	return capped(2*count, longLinePenaltyCap)
}

func trailingWhitespacePenalty(lines []string) int {
	count := 0
	for _, line := range lines {
		if line != "" && line != strings.TrimRight(line, " \t") {
			count++
		}
	}
	return capped(count, trailingPenaltyCap)
}

func markerPenalty(source string) int {
	count := 0
	for _, marker := range []string{"TODO", "FIXME", "XXX", "HACK"} {
		count += strings.Count(source, marker)
	}
	return capped(3*count, markerPenaltyCap)
}

// indentationPenalty fires when a file indents with both tabs and spaces.
func indentationPenalty(lines []string) int {
	var tabs, spaces bool
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "\t"):
			tabs = true
		case strings.HasPrefix(line, " "):
			spaces = true
		}
	}
	if tabs && spaces {
		return mixedIndentPenalty
	}
	return 0
}

func lengthPenalty(lines []string) int {
	switch {
	case len(lines) > hugeFileLines:
		return hugeFilePenalty
	case len(lines) > largeFileLines:
		return largeFilePenalty
	default:
		return 0
	}
}

// runPenalty measures the longest run of consecutive non-blank lines,
// a rough proxy for functions that never come up for air.
func runPenalty(lines []string) int {
	longest, current := 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	switch {
	case longest > denseRunLimit:
		return denseRunPenalty
	case longest > longRunLimit:
		return longRunPenalty
	default:
		return 0
	}
}

func capped(value, limit int) int {
	if value > limit {
		return limit
	}
	return value
}
