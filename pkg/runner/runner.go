package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/pkg/fsutil"
	"github.com/yaklabco/gorevise/pkg/langdetect"
	"github.com/yaklabco/gorevise/pkg/provider"
	"github.com/yaklabco/gorevise/pkg/review"
)

// Reviewer is the per-file unit of work. provider.Service implements
// it; tests substitute their own.
type Reviewer interface {
	Review(ctx context.Context, req provider.Request) (*review.Review, error)
}

// Runner reviews many files concurrently.
type Runner struct {
	reviewer Reviewer
}

// New creates a Runner that reviews each file through reviewer.
func New(reviewer Reviewer) *Runner {
	return &Runner{reviewer: reviewer}
}

// Run discovers files under opts.Paths and reviews them with a worker
// pool. Results come back in discovery order regardless of which
// worker finished first. Per-file failures land in the outcomes; the
// error return is for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := newResult(len(files))
	result.Stats.FilesDiscovered = len(files)

	logger.Debug("discovery complete",
		logging.FieldFiles, len(files),
		logging.FieldWorkingDir, opts.WorkingDir)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.effectiveJobs(len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	result.finalize()

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.reviewFile(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// reviewFile runs the full per-file pipeline: read, filter, detect,
// review.
func (r *Runner) reviewFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = fmt.Errorf("read %s: %w", path, err)
		return outcome
	}
	outcome.SourceHash = snap.HexHash()

	if reason, skip := langdetect.ShouldSkip(path, content); skip {
		outcome.SkipReason = reason
		return outcome
	}

	result, err := r.reviewer.Review(ctx, provider.Request{
		Path:     path,
		Language: langdetect.Detect(path, content),
		Source:   string(content),
	})
	if err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Review = result
	return outcome
}
