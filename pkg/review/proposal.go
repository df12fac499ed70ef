package review

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yaklabco/gorevise/pkg/config"
)

// Category classifies what kind of change a proposal makes.
type Category string

// Valid category values.
const (
	CategoryBug         Category = "bug"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryStyle       Category = "style"
	CategoryFeature     Category = "feature"
)

// ParseCategory converts a string to a Category.
// Unknown or empty values default to CategoryStyle.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bug":
		return CategoryBug
	case "security":
		return CategorySecurity
	case "performance":
		return CategoryPerformance
	case "style":
		return CategoryStyle
	case "feature":
		return CategoryFeature
	default:
		return CategoryStyle
	}
}

// IsValid reports whether the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBug, CategorySecurity, CategoryPerformance, CategoryStyle, CategoryFeature:
		return true
	default:
		return false
	}
}

// Proposal is a single suggested edit from a review. Proposals are
// untrusted input: every field may be missing or malformed, and
// Normalize substitutes safe defaults rather than rejecting them.
// Once normalized a proposal is read-only.
type Proposal struct {
	// ID uniquely identifies the proposal within its review.
	ID string `json:"id"`

	// Description is the human-readable explanation of the change.
	Description string `json:"description"`

	// AnchorText is the exact text the proposal replaces. Location is
	// resolved by first-occurrence substring search, so the anchor
	// should be unique within the file.
	AnchorText string `json:"anchorText"`

	// ReplacementText is the text to substitute. Empty means delete.
	ReplacementText string `json:"replacementText"`

	// LineStart and LineEnd are a 1-indexed inclusive line range.
	// Advisory only: used when the anchor cannot be located.
	LineStart int `json:"lineStart"`
	LineEnd   int `json:"lineEnd"`

	// Severity is advisory and never affects whether an edit applies.
	Severity config.Severity `json:"severity"`

	// Category is advisory classification for reporting.
	Category Category `json:"category"`
}

// Normalize returns a copy with malformed fields replaced by safe
// defaults: a generated UUID for a missing ID, line 1 for missing or
// inverted line numbers, info severity and style category for unknown
// values. Malformed input is never an error.
func (p Proposal) Normalize() Proposal {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.New().String()
	}
	if p.LineStart < 1 {
		p.LineStart = 1
	}
	if p.LineEnd < p.LineStart {
		p.LineEnd = p.LineStart
	}
	if !p.Severity.IsValid() {
		p.Severity = config.ParseSeverity(string(p.Severity))
	}
	if !p.Category.IsValid() {
		p.Category = ParseCategory(string(p.Category))
	}
	return p
}

// IsDeletion reports whether the proposal removes its anchor entirely.
func (p Proposal) IsDeletion() bool {
	return p.ReplacementText == "" && p.AnchorText != ""
}
