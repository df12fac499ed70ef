package document

import "context"

// Editor is the host edit primitive. Implementations perform a single
// replacement against the document; the patch engine issues at most one
// outstanding edit at a time and inspects the returned error to decide
// how the proposal is counted.
type Editor interface {
	Replace(ctx context.Context, doc *Document, start, end int, text string) error
}

// BufferEditor applies edits directly to the in-memory document buffer.
// It is the default host primitive for file-based workflows.
type BufferEditor struct{}

// Replace applies a single replacement to doc.
func (BufferEditor) Replace(ctx context.Context, doc *Document, start, end int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	return doc.Replace(start, end, text)
}
