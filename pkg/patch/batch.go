package patch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yaklabco/gorevise/pkg/document"
	"github.com/yaklabco/gorevise/pkg/review"
)

// ErrNilEditor is returned when an applier is constructed without an editor.
var ErrNilEditor = errors.New("nil editor")

// Status describes what happened to one proposal.
type Status string

// Proposal outcome statuses.
const (
	StatusApplied        Status = "applied"
	StatusNotFound       Status = "not_found"
	StatusSkippedOverlap Status = "skipped_overlap"
	StatusFailed         Status = "failed"
	StatusDeclined       Status = "declined"
)

// Method records how a proposal's target span was resolved.
type Method string

// Span resolution methods.
const (
	MethodAnchor    Method = "anchor"
	MethodLineRange Method = "line_range"
)

// Outcome is the result of processing one proposal.
type Outcome struct {
	// ProposalID identifies the proposal this outcome belongs to.
	ProposalID string

	// Status is the terminal state of the proposal.
	Status Status

	// Span is the resolved target in apply-time coordinates.
	// Zero when the anchor was never located.
	Span Span

	// Method reports whether the span came from the anchor or the
	// line-range fallback.
	Method Method

	// Clamped is set when the line-range fallback hit a document
	// boundary and was clamped to fit.
	Clamped bool

	// Err carries the cause for StatusFailed.
	Err error
}

// BatchResult summarizes one batch application. It is created fresh per
// call and holds no state across batches.
type BatchResult struct {
	Applied        int
	NotFound       int
	SkippedOverlap int
	Failed         int

	// Outcomes holds one entry per proposal in processing order.
	Outcomes []Outcome
}

// Total returns the number of proposals processed.
func (r *BatchResult) Total() int {
	return len(r.Outcomes)
}

// HasFailures reports whether any proposal failed at the host editor.
func (r *BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Changed reports whether the batch modified the document at all.
func (r *BatchResult) Changed() bool {
	return r.Applied > 0
}

// Record adds an outcome to the tally. Batch application records
// internally; interactive callers aggregating single applications use
// it to build the same summary.
func (r *BatchResult) Record(outcome Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
	switch outcome.Status {
	case StatusApplied:
		r.Applied++
	case StatusNotFound:
		r.NotFound++
	case StatusSkippedOverlap:
		r.SkippedOverlap++
	case StatusFailed:
		r.Failed++
	case StatusDeclined:
		// Declines only happen in interactive single-apply.
	}
}

// BatchApplier applies many proposals to one document in a single pass.
type BatchApplier struct {
	editor document.Editor
}

// NewBatchApplier creates a batch applier that writes through editor.
func NewBatchApplier(editor document.Editor) *BatchApplier {
	return &BatchApplier{editor: editor}
}

// Apply processes proposals bottom-up against doc and reports what
// happened to each one.
//
// Proposals are stably sorted by descending LineStart so edits low in
// the file land before edits above them can move offsets. Each proposal
// is then re-resolved by anchor against the document's current text;
// the batch never takes the line-range fallback. A proposal whose
// anchor is missing counts as not found, one whose span overlaps an
// already-committed edit is skipped, and a host editor failure counts
// as failed. No failure aborts the batch: every proposal is attempted,
// and at most one host edit is outstanding at any time.
//
// There is no rollback. Callers that need atomicity snapshot
// doc.Content() beforehand. If ctx is cancelled mid-batch, edits
// already applied stay applied and the remaining proposals are recorded
// as failed with the context error.
//
// The error return is reserved for caller misuse (nil document or
// editor); proposals failing is never an error.
func (a *BatchApplier) Apply(ctx context.Context, doc *document.Document, proposals []review.Proposal) (*BatchResult, error) {
	if doc == nil {
		return nil, document.ErrNilDocument
	}
	if a.editor == nil {
		return nil, ErrNilEditor
	}

	ordered := make([]review.Proposal, len(proposals))
	copy(ordered, proposals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LineStart > ordered[j].LineStart
	})

	result := &BatchResult{Outcomes: make([]Outcome, 0, len(ordered))}
	tracker := NewTracker()

	for _, proposal := range ordered {
		if err := ctx.Err(); err != nil {
			result.Record(Outcome{
				ProposalID: proposal.ID,
				Status:     StatusFailed,
				Method:     MethodAnchor,
				Err:        err,
			})
			continue
		}
		result.Record(a.applyNext(ctx, doc, tracker, proposal))
	}

	return result, nil
}

// applyNext resolves and applies a single proposal within a batch.
// Resolution always runs against the current text, which may already
// contain earlier edits from this batch.
func (a *BatchApplier) applyNext(ctx context.Context, doc *document.Document, tracker *Tracker, proposal review.Proposal) Outcome {
	outcome := Outcome{ProposalID: proposal.ID, Method: MethodAnchor}

	span, ok := Locate(doc, proposal.AnchorText)
	if !ok {
		outcome.Status = StatusNotFound
		return outcome
	}
	outcome.Span = span

	if tracker.WouldOverlap(span) {
		outcome.Status = StatusSkippedOverlap
		return outcome
	}

	if err := a.editor.Replace(ctx, doc, span.Start, span.End, proposal.ReplacementText); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("host edit: %w", err)
		return outcome
	}

	delta := len(proposal.ReplacementText) - span.Len()
	tracker.ShiftAfter(span, delta)
	tracker.Commit(Span{Start: span.Start, End: span.Start + len(proposal.ReplacementText)})

	outcome.Status = StatusApplied
	return outcome
}
