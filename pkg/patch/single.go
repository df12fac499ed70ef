package patch

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gorevise/pkg/document"
	"github.com/yaklabco/gorevise/pkg/review"
)

// ErrNilPolicy is returned when a single applier is constructed without
// a confirmation policy.
var ErrNilPolicy = errors.New("nil confirmation policy")

// ConfirmationPolicy decides whether a resolved proposal is applied.
// The engine supplies the mechanism (the resolved span and how it was
// found); implementations supply the decision.
type ConfirmationPolicy interface {
	// ConfirmExact decides an anchor-resolved application.
	ConfirmExact(doc *document.Document, proposal review.Proposal, span Span) (bool, error)

	// ConfirmFallback decides a line-range application. The fallback
	// loses the exact-match precision guarantee, so implementations
	// should demand a stronger signal than ConfirmExact.
	ConfirmFallback(doc *document.Document, proposal review.Proposal, span Span, clamped bool) (bool, error)
}

// AutoApprove accepts every confirmation request. It is the policy
// behind non-interactive flag-driven application.
type AutoApprove struct{}

// ConfirmExact always approves.
func (AutoApprove) ConfirmExact(*document.Document, review.Proposal, Span) (bool, error) {
	return true, nil
}

// ConfirmFallback always approves.
func (AutoApprove) ConfirmFallback(*document.Document, review.Proposal, Span, bool) (bool, error) {
	return true, nil
}

// AutoDecline rejects every confirmation request. Useful for preview
// runs that must never write.
type AutoDecline struct{}

// ConfirmExact always declines.
func (AutoDecline) ConfirmExact(*document.Document, review.Proposal, Span) (bool, error) {
	return false, nil
}

// ConfirmFallback always declines.
func (AutoDecline) ConfirmFallback(*document.Document, review.Proposal, Span, bool) (bool, error) {
	return false, nil
}

// SingleApplier applies one proposal at a time, asking the confirmation
// policy before every write.
type SingleApplier struct {
	editor document.Editor
	policy ConfirmationPolicy
}

// NewSingleApplier creates a single applier that writes through editor
// and consults policy before each application.
func NewSingleApplier(editor document.Editor, policy ConfirmationPolicy) *SingleApplier {
	return &SingleApplier{editor: editor, policy: policy}
}

// ApplyOne resolves and applies a single proposal.
//
// When the anchor is found the exact confirmation runs and the edit is
// applied on approval. When the anchor is missing and allowLineFallback
// is false the outcome is not found; callers may re-invoke with the
// fallback allowed. With the fallback allowed, the advisory line range
// is clamped to the document and the stronger fallback confirmation
// runs before the whole-line replacement.
//
// Declines and host editor failures are outcomes, not errors; the error
// return is reserved for caller misuse.
func (a *SingleApplier) ApplyOne(ctx context.Context, doc *document.Document, proposal review.Proposal, allowLineFallback bool) (Outcome, error) {
	if doc == nil {
		return Outcome{}, document.ErrNilDocument
	}
	if a.editor == nil {
		return Outcome{}, ErrNilEditor
	}
	if a.policy == nil {
		return Outcome{}, ErrNilPolicy
	}

	outcome := Outcome{ProposalID: proposal.ID, Method: MethodAnchor}

	if span, ok := Locate(doc, proposal.AnchorText); ok {
		outcome.Span = span

		approved, err := a.policy.ConfirmExact(doc, proposal, span)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = fmt.Errorf("confirmation: %w", err)
			return outcome, nil
		}
		if !approved {
			outcome.Status = StatusDeclined
			return outcome, nil
		}
		return a.applyAt(ctx, doc, proposal, outcome), nil
	}

	if !allowLineFallback {
		outcome.Status = StatusNotFound
		return outcome, nil
	}

	span, clamped := LineFallback(doc, proposal.LineStart, proposal.LineEnd)
	outcome.Method = MethodLineRange
	outcome.Span = span
	outcome.Clamped = clamped

	approved, err := a.policy.ConfirmFallback(doc, proposal, span, clamped)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("confirmation: %w", err)
		return outcome, nil
	}
	if !approved {
		outcome.Status = StatusDeclined
		return outcome, nil
	}
	return a.applyAt(ctx, doc, proposal, outcome), nil
}

func (a *SingleApplier) applyAt(ctx context.Context, doc *document.Document, proposal review.Proposal, outcome Outcome) Outcome {
	if err := a.editor.Replace(ctx, doc, outcome.Span.Start, outcome.Span.End, proposal.ReplacementText); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("host edit: %w", err)
		return outcome
	}
	outcome.Status = StatusApplied
	return outcome
}
