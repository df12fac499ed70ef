// Package review defines the proposal model produced by AI code review
// and the parsing pipeline that turns raw model replies into normalized
// proposals. Replies arrive as markdown-wrapped JSON; extraction,
// schema validation, and tolerant field salvage live here so callers
// only ever see well-formed proposals.
package review

import "time"

// Review is the outcome of one provider call for a single file.
type Review struct {
	// Path is the reviewed file path (may be empty for stdin or buffers).
	Path string `json:"path,omitempty"`

	// Language is the detected language identifier sent to the provider.
	Language string `json:"language,omitempty"`

	// Provider and Model identify what produced the proposals.
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Summary is the model's free-text assessment of the file.
	Summary string `json:"summary,omitempty"`

	// Score is the mechanical 0-100 quality score for the source.
	Score int `json:"score"`

	// Proposals are the normalized edit proposals.
	Proposals []Proposal `json:"proposals"`

	// CreatedAt records when the review completed.
	CreatedAt time.Time `json:"createdAt"`
}

// CountBySeverity returns the number of proposals per severity value.
func (r *Review) CountBySeverity() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.Proposals {
		counts[string(p.Severity)]++
	}
	return counts
}

// HasSeverity reports whether any proposal carries the given severity.
func (r *Review) HasSeverity(severity string) bool {
	for _, p := range r.Proposals {
		if string(p.Severity) == severity {
			return true
		}
	}
	return false
}
