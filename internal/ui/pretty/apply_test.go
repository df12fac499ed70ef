package pretty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/patch"
	"github.com/yaklabco/gorevise/pkg/review"
)

func TestFormatOutcome(t *testing.T) {
	styles := pretty.NewStyles(false)
	proposal := review.Proposal{ID: "p1", Description: "remove dead branch"}

	tests := []struct {
		name    string
		outcome patch.Outcome
		want    []string
	}{
		{
			name:    "applied",
			outcome: patch.Outcome{ProposalID: "p1", Status: patch.StatusApplied, Method: patch.MethodAnchor},
			want:    []string{"✓", "remove dead branch"},
		},
		{
			name: "applied via fallback",
			outcome: patch.Outcome{
				ProposalID: "p1",
				Status:     patch.StatusApplied,
				Method:     patch.MethodLineRange,
				Clamped:    true,
			},
			want: []string{"✓", "line fallback, clamped"},
		},
		{
			name:    "not found",
			outcome: patch.Outcome{ProposalID: "p1", Status: patch.StatusNotFound},
			want:    []string{"?", "anchor not found"},
		},
		{
			name:    "skipped overlap",
			outcome: patch.Outcome{ProposalID: "p1", Status: patch.StatusSkippedOverlap},
			want:    []string{"~", "overlaps an earlier edit"},
		},
		{
			name: "failed",
			outcome: patch.Outcome{
				ProposalID: "p1",
				Status:     patch.StatusFailed,
				Err:        errors.New("host edit: disk full"),
			},
			want: []string{"✗", "host edit: disk full"},
		},
		{
			name:    "declined",
			outcome: patch.Outcome{ProposalID: "p1", Status: patch.StatusDeclined},
			want:    []string{"-", "declined"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := styles.FormatOutcome(tt.outcome, proposal)
			for _, want := range tt.want {
				assert.Contains(t, result, want)
			}
		})
	}
}

func TestFormatApplySummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatApplySummary(&patch.BatchResult{
		Applied:        4,
		NotFound:       1,
		SkippedOverlap: 2,
		Failed:         0,
	})

	assert.Equal(t, "4 applied, 1 not found, 2 skipped, 0 failed\n", result)
}

func TestFormatApplySummary_AllZero(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatApplySummary(&patch.BatchResult{})

	assert.Equal(t, "0 applied, 0 not found, 0 skipped, 0 failed\n", result)
}
