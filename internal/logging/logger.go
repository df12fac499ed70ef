// Package logging wraps charmbracelet/log with the conventions shared by
// every gorevise command: stderr output, no timestamps, string levels,
// and a lazily built process-wide default.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide default logger.
var (
	defaultLogger *log.Logger
	defaultOnce   sync.Once
)

// New creates a logger at the given level. Levels are "debug", "info",
// "warn", and "error"; anything else falls back to info.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	applyLevel(logger, level)

	return logger
}

// NewInteractive creates a logger for user-facing output in interactive
// commands. It writes to stderr at info level so messages stay visible
// without flooding the terminal with debug detail.
func NewInteractive() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(log.InfoLevel)

	return logger
}

// Default returns the process-wide logger, creating it at info level on
// first use.
func Default() *log.Logger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = New("info")
		}
	})

	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger = logger
}

// SetLevel updates the level of the process-wide logger.
func SetLevel(level string) {
	applyLevel(Default(), level)
}

func applyLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}
