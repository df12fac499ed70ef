// Package runner orchestrates review runs over many files: discovery,
// a bounded worker pool, and aggregate statistics.
package runner

import "github.com/yaklabco/gorevise/pkg/langdetect"

// Options controls discovery and concurrency for one run.
type Options struct {
	// Paths are the user-specified files or directories to review.
	// Empty defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory for resolving relative Paths
	// and glob patterns. Empty means the process working directory.
	WorkingDir string

	// Extensions is the reviewable extension allowlist (lowercase,
	// with leading dot). Empty means langdetect.DefaultExtensions.
	Extensions []string

	// IncludeGlobs restricts discovery to matching paths, relative to
	// WorkingDir. Empty includes everything matching Extensions.
	IncludeGlobs []string

	// ExcludeGlobs skips matching files and directories. Merged from
	// configuration ignore rules and the CLI.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are walked.
	FollowSymlinks bool

	// Jobs caps concurrent reviews. Zero or negative means
	// DefaultJobs; provider rate limits make high values pointless.
	Jobs int
}

// DefaultJobs is the worker count used when Options.Jobs is unset.
const DefaultJobs = 2

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return langdetect.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveJobs(fileCount int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	if jobs > fileCount {
		jobs = fileCount
	}
	return jobs
}
