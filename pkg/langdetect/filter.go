package langdetect

import "github.com/go-enry/go-enry/v2"

// Skip reasons reported by ShouldSkip.
const (
	ReasonVendored  = "vendored"
	ReasonTooLarge  = "too large"
	ReasonBinary    = "binary"
	ReasonGenerated = "generated"
)

// MaxReviewableSize is the largest file content sent to a provider.
// Bigger files blow the context window and review quality collapses
// long before that.
const MaxReviewableSize = 256 * 1024

// ShouldSkip reports whether a file should be excluded from review,
// and why. Checks run cheapest first: vendored paths and size need no
// content scan.
func ShouldSkip(path string, content []byte) (string, bool) {
	if enry.IsVendor(path) {
		return ReasonVendored, true
	}
	if len(content) > MaxReviewableSize {
		return ReasonTooLarge, true
	}
	if enry.IsBinary(content) {
		return ReasonBinary, true
	}
	if enry.IsGenerated(path, content) {
		return ReasonGenerated, true
	}
	return "", false
}
