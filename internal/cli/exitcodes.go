package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gorevise/internal/configloader"
	"github.com/yaklabco/gorevise/pkg/fsutil"
	"github.com/yaklabco/gorevise/pkg/provider"
	"github.com/yaklabco/gorevise/pkg/runner"
	"github.com/yaklabco/gorevise/pkg/store"
)

// Exit codes for gorevise, BSD sysexits style.
const (
	// ExitSuccess indicates successful execution with no findings.
	ExitSuccess = 0

	// ExitReviewErrors indicates the run completed but produced
	// error-severity proposals, or an apply had failures.
	ExitReviewErrors = 1

	// ExitReviewWarnings indicates warning-severity proposals under
	// strict mode.
	ExitReviewWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or provider setup errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// errUsage wraps command-line usage failures so they map to
// ExitInvalidUsage.
var errUsage = errors.New("invalid usage")

// ExitCodeFromResult determines the exit code for a review run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.ProposalsBySeverity["error"] > 0 {
		return ExitReviewErrors
	}

	if strict && result.Stats.ProposalsBySeverity["warning"] > 0 {
		return ExitReviewWarnings
	}

	return ExitSuccess
}

// ExitCodeForError maps an error from command execution to a process
// exit code. Sentinels from the review and apply commands carry their
// finding codes; everything else is classified by cause.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *configloader.ValidationError

	switch {
	case errors.Is(err, ErrReviewIssuesFound), errors.Is(err, ErrApplyFailed):
		return ExitReviewErrors
	case errors.Is(err, ErrReviewWarnings):
		return ExitReviewWarnings
	case errors.Is(err, errUsage),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrAmbiguousSession):
		return ExitInvalidUsage
	case errors.Is(err, provider.ErrUnknownProvider),
		errors.Is(err, provider.ErrMissingAPIKey),
		errors.Is(err, provider.ErrMissingBaseURL),
		errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
