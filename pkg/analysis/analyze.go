// Package analysis turns raw review results into aggregate views:
// per-file and per-category breakdowns plus overall totals. Reports
// are computed once and shared by every output format.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/review"
	"github.com/yaklabco/gorevise/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// Severity string constants for internal use.
const (
	severityError   = "error"
	severityWarning = "warning"
	severityInfo    = "info"
)

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	categoryMap    map[string]*CategoryAnalysis
	fileMap        map[string]*FileAnalysis
	categoryFiles  map[string]map[string]bool
	fileCategories map[string]map[string]bool
}

// newAnalysisContext creates a new analysis context.
func newAnalysisContext() *analysisContext {
	return &analysisContext{
		categoryMap:    make(map[string]*CategoryAnalysis),
		fileMap:        make(map[string]*FileAnalysis),
		categoryFiles:  make(map[string]map[string]bool),
		fileCategories: make(map[string]map[string]bool),
	}
}

// normalizeSeverity maps unknown severity values the same way proposal
// normalization does, so stored sessions and fresh reviews agree.
func normalizeSeverity(sev config.Severity) string {
	if !sev.IsValid() {
		sev = config.ParseSeverity(string(sev))
	}
	return string(sev)
}

// normalizeCategory maps unknown category values to style.
func normalizeCategory(cat review.Category) string {
	if !cat.IsValid() {
		cat = review.ParseCategory(string(cat))
	}
	return string(cat)
}

// incrementSeverityCounts updates counts based on severity.
func incrementSeverityCounts(severity string, totals *Totals, fa *FileAnalysis) {
	switch severity {
	case severityError:
		totals.Errors++
		fa.Errors++
	case severityWarning:
		totals.Warnings++
		fa.Warnings++
	case severityInfo:
		totals.Infos++
		fa.Infos++
	}
}

// incrementCategorySeverity updates category analysis severity counts.
func incrementCategorySeverity(severity string, ca *CategoryAnalysis) {
	switch severity {
	case severityError:
		ca.Errors++
	case severityWarning:
		ca.Warnings++
	case severityInfo:
		ca.Infos++
	}
}

// getOrCreateFileAnalysis returns existing or creates new FileAnalysis.
func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileCategories[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

// getOrCreateCategoryAnalysis returns existing or creates new CategoryAnalysis.
func (ctx *analysisContext) getOrCreateCategoryAnalysis(category string) *CategoryAnalysis {
	if _, ok := ctx.categoryMap[category]; !ok {
		ctx.categoryMap[category] = &CategoryAnalysis{Category: category}
		ctx.categoryFiles[category] = make(map[string]bool)
	}
	return ctx.categoryMap[category]
}

// createProposalEntry builds a ProposalEntry from a review proposal.
func createProposalEntry(path, severity, category string, p review.Proposal) ProposalEntry {
	return ProposalEntry{
		FilePath:        path,
		ID:              p.ID,
		Description:     p.Description,
		Severity:        severity,
		Category:        category,
		LineStart:       p.LineStart,
		LineEnd:         p.LineEnd,
		AnchorText:      p.AnchorText,
		ReplacementText: p.ReplacementText,
		Deletion:        p.IsDeletion(),
	}
}

// buildByFile constructs the ByFile slice from accumulated data.
func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Proposals == 0 {
			continue
		}
		for c := range ctx.fileCategories[path] {
			fa.Categories = append(fa.Categories, c)
		}
		slices.Sort(fa.Categories)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// buildByCategory constructs the ByCategory slice from accumulated data.
func (ctx *analysisContext) buildByCategory(opts Options) []CategoryAnalysis {
	result := make([]CategoryAnalysis, 0, len(ctx.categoryMap))
	for category, ca := range ctx.categoryMap {
		for f := range ctx.categoryFiles[category] {
			ca.Files = append(ca.Files, f)
		}
		slices.Sort(ca.Files)
		result = append(result, *ca)
	}
	sortCategoryAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It works from the raw outcomes rather than runner.Stats, so restored
// sessions analyze exactly like fresh runs.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()
	scoreSum, reviewed := 0, 0

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		if file.Skipped() {
			report.Totals.FilesSkipped++
			continue
		}
		if file.Review == nil {
			continue
		}

		scoreSum += file.Review.Score
		reviewed++
		if len(file.Review.Proposals) > 0 {
			report.Totals.FilesWithProposals++
		}

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := ctx.getOrCreateFileAnalysis(displayPath)
		fa.Score = file.Review.Score

		for _, proposal := range file.Review.Proposals {
			report.Totals.Proposals++
			severity := normalizeSeverity(proposal.Severity)
			category := normalizeCategory(proposal.Category)

			incrementSeverityCounts(severity, &report.Totals, fa)

			fa.Proposals++
			ctx.fileCategories[displayPath][category] = true

			ca := ctx.getOrCreateCategoryAnalysis(category)
			ca.Proposals++
			incrementCategorySeverity(severity, ca)
			ctx.categoryFiles[category][displayPath] = true

			if opts.IncludeProposals {
				report.Proposals = append(report.Proposals, createProposalEntry(displayPath, severity, category, proposal))
			}
		}
	}

	if reviewed > 0 {
		report.Totals.MeanScore = float64(scoreSum) / float64(reviewed)
	}

	if opts.IncludeByCategory {
		report.ByCategory = ctx.buildByCategory(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

func sortCategoryAnalysis(categories []CategoryAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(categories, func(left, right CategoryAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Category, right.Category)
		case SortBySeverity:
			// Errors first, then warnings, then infos (always descending by severity)
			result := cmp.Compare(right.Errors, left.Errors)
			if result == 0 {
				result = cmp.Compare(right.Warnings, left.Warnings)
			}
			if result == 0 {
				result = cmp.Compare(right.Proposals, left.Proposals)
			}
			return result
		default: // SortByCount
			result := cmp.Compare(left.Proposals, right.Proposals)
			if desc {
				result = -result
			}
			return result
		}
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Path, right.Path)
		case SortBySeverity:
			// Errors first, then warnings, then infos (always descending by severity)
			result := cmp.Compare(right.Errors, left.Errors)
			if result == 0 {
				result = cmp.Compare(right.Warnings, left.Warnings)
			}
			if result == 0 {
				result = cmp.Compare(right.Proposals, left.Proposals)
			}
			return result
		default: // SortByCount
			result := cmp.Compare(left.Proposals, right.Proposals)
			if desc {
				result = -result
			}
			return result
		}
	})
}
