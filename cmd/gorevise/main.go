// Package main is the entry point for the gorevise CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/gorevise/internal/cli"
	"github.com/yaklabco/gorevise/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Build and execute the root command.
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Review findings and apply failures are expected outcomes
		// carried in the exit code; don't log them as errors.
		if !isOutcomeSignal(err) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCodeForError(err)
	}

	return cli.ExitSuccess
}

func isOutcomeSignal(err error) bool {
	return errors.Is(err, cli.ErrReviewIssuesFound) ||
		errors.Is(err, cli.ErrReviewWarnings) ||
		errors.Is(err, cli.ErrApplyFailed)
}
