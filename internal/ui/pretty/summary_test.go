package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      10,
		FilesWithProposals:  3,
		ProposalsTotal:      15,
		ProposalsBySeverity: map[string]int{"error": 5, "warning": 10},
		MeanScore:           82,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files reviewed:")
	assert.Contains(t, result, "10")
	assert.Contains(t, result, "With proposals:")
	assert.Contains(t, result, "3")
	assert.Contains(t, result, "Total proposals:")
	assert.Contains(t, result, "15")
	assert.Contains(t, result, "Errors:")
	assert.Contains(t, result, "5")
	assert.Contains(t, result, "Warnings:")
	assert.Contains(t, result, "Mean score:")
	assert.Contains(t, result, "82")
}

func TestFormatSummary_NoProposals(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      5,
		ProposalsBySeverity: map[string]int{},
		MeanScore:           96,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Review clean")
	assert.NotContains(t, result, "With proposals:")
}

func TestFormatSummary_WithErrors(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      10,
		FilesWithProposals:  2,
		ProposalsTotal:      5,
		ProposalsBySeverity: map[string]int{"error": 2, "warning": 3},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Review found errors")
}

func TestFormatSummary_WarningsOnly(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      4,
		FilesWithProposals:  1,
		ProposalsTotal:      2,
		ProposalsBySeverity: map[string]int{"warning": 2},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Review completed with warnings")
}

func TestFormatSummaryOneLine_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      4,
		FilesWithProposals:  2,
		ProposalsTotal:      12,
		ProposalsBySeverity: map[string]int{"error": 3, "warning": 9},
		MeanScore:           78,
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "12 proposals")
	assert.Contains(t, result, "3 errors")
	assert.Contains(t, result, "9 warnings")
	assert.Contains(t, result, "in 2 files")
	assert.Contains(t, result, "mean score 78")
}

func TestFormatSummaryOneLine_NoProposals(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed: 6,
		FilesSkipped:   2,
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "No proposals")
	assert.Contains(t, result, "6 files reviewed")
	assert.Contains(t, result, "2 skipped")
}

func TestFormatSummaryOneLine_SingleProposal(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      1,
		FilesWithProposals:  1,
		ProposalsTotal:      1,
		ProposalsBySeverity: map[string]int{"info": 1},
		MeanScore:           90,
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "1 proposal (")
	assert.Contains(t, result, "in 1 file,")
}

func TestFormatSummaryOneLine_ErroredFiles(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:      3,
		FilesWithProposals:  1,
		FilesErrored:        1,
		ProposalsTotal:      2,
		ProposalsBySeverity: map[string]int{"warning": 2},
		MeanScore:           85,
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Contains(t, result, "1 file errored")
}
