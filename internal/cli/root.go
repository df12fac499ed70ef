// Package cli provides the Cobra command structure for gorevise.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gorevise command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gorevise",
		Short: "AI-assisted code review with safe, auditable patching",
		Long: `gorevise reviews source files with an AI provider and turns the
model's findings into edit proposals you can inspect and apply.

Proposals anchor on exact text rather than line numbers, so they stay
correct as files drift. Application is conservative: anchors that no
longer match are reported instead of guessed at, overlapping edits are
skipped, and the imprecise line-range fallback only runs when you
confirm it. Reviews persist to a local session store for later apply.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Flag parse failures are usage errors, not internal ones.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newReviewCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newSessionsCommand())
	rootCmd.AddCommand(newProvidersCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	styleHelp(rootCmd, color, os.Stdout)

	return rootCmd
}

// commandContext returns the command's context, falling back to
// Background for commands constructed outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
