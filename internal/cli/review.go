package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/configloader"
	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/provider"
	"github.com/yaklabco/gorevise/pkg/reporter"
	"github.com/yaklabco/gorevise/pkg/runner"
	"github.com/yaklabco/gorevise/pkg/store"
)

// Sentinel errors that carry review outcomes to the exit code mapping.
var (
	// ErrReviewIssuesFound is returned when a review produces
	// error-severity proposals.
	ErrReviewIssuesFound = errors.New("review issues found")

	// ErrReviewWarnings is returned when strict mode elevates
	// warning-severity proposals.
	ErrReviewWarnings = errors.New("review warnings found")

	// ErrReviewRunFailed is returned when one or more files could not
	// be reviewed at all.
	ErrReviewRunFailed = errors.New("review run failed")
)

type reviewFlags struct {
	format     string
	ignore     []string
	extensions []string
	noContext  bool
	compact    bool
}

func newReviewCommand() *cobra.Command {
	var cfg config.Config
	flags := &reviewFlags{}

	cmd := &cobra.Command{
		Use:   "review [paths...]",
		Short: "Review source files and print edit proposals",
		Long:  reviewLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, args, &cfg, flags)
		},
	}

	addReviewFlags(cmd, &cfg, flags)

	return cmd
}

const reviewLongDescription = `Review source files with the configured AI provider.

By default, reviews all recognized source files under the current
directory. Specify paths to review specific files or directories. Each
review is saved to the session store so proposals can be applied later
with 'gorevise apply'.

Examples:
  gorevise review                    # Review current directory
  gorevise review main.go pkg/       # Review a file and a directory
  gorevise review --format json      # Machine-readable output for CI
  gorevise review --no-save          # Don't persist sessions
  gorevise review --strict           # Warnings affect the exit code`

func runReview(cmd *cobra.Command, args []string, cfg *config.Config, flags *reviewFlags) error {
	logger := logging.Default()

	// Map string flags to typed config values. Zero values never merge,
	// so unconditional assignment is safe for flags the user left alone.
	cfg.Format = config.OutputFormat(flags.format)
	cfg.Review.Ignore = flags.ignore
	cfg.Review.Extensions = flags.extensions

	ctx := commandContext(cmd)

	finalCfg, workDir, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldProvider, finalCfg.Provider.Name,
		logging.FieldModel, finalCfg.Provider.Model,
		logging.FieldJobs, finalCfg.Review.Jobs,
	)

	// Create the provider client and the review service on top of it.
	client, err := provider.New(ctx, finalCfg.Provider)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	service := provider.NewService(client, finalCfg.Review.MaxProposals)

	reviewRunner := runner.New(service)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   finalCfg.Review.Extensions,
		ExcludeGlobs: finalCfg.Review.Ignore,
		Jobs:         finalCfg.Review.Jobs,
	}

	logger.Debug("starting review run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := reviewRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("review run failed"), err)
	}

	saveSessions(ctx, logger, finalCfg, result)

	if err := reportResult(ctx, cmd, finalCfg, flags, workDir, result); err != nil {
		return err
	}

	// Per-file failures were already reported; surface them in the exit
	// code so CI never mistakes a broken run for a clean one.
	if result.HasErrors() {
		return ErrReviewRunFailed
	}

	switch ExitCodeFromResult(result, finalCfg.Strict) {
	case ExitReviewErrors:
		return ErrReviewIssuesFound
	case ExitReviewWarnings:
		return ErrReviewWarnings
	}

	return nil
}

// loadConfig resolves the final configuration for a command: discovery,
// file merging, environment, then CLI overrides.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, workDir, nil
}

// saveSessions persists every completed review to the session store.
// Store trouble degrades to a warning: the review output is already in
// hand and losing persistence should not fail the run.
func saveSessions(ctx context.Context, logger *log.Logger, cfg *config.Config, result *runner.Result) {
	if !cfg.Review.SaveSessions || cfg.NoSave {
		return
	}

	reviews := 0
	for _, file := range result.Files {
		if file.Review != nil {
			reviews++
		}
	}
	if reviews == 0 {
		return
	}

	storePath := cfg.Store.Path
	if storePath == "" {
		var err error
		storePath, err = store.DefaultPath()
		if err != nil {
			logger.Warn("session store unavailable", logging.FieldError, err)
			return
		}
	}

	st, err := store.Open(storePath)
	if err != nil {
		logger.Warn("session store unavailable", logging.FieldError, err)
		return
	}
	defer st.Close()

	saved := 0
	for _, file := range result.Files {
		if file.Review == nil {
			continue
		}
		session := store.FromReview(uuid.NewString(), file.Review, file.SourceHash)
		if err := st.Save(ctx, session); err != nil {
			logger.Warn("save session failed",
				logging.FieldPath, file.Path,
				logging.FieldError, err)
			continue
		}
		saved++
		logger.Debug("session saved",
			logging.FieldSession, session.ID[:8],
			logging.FieldPath, file.Path)
	}

	if saved > 0 {
		logger.Info("sessions saved",
			logging.FieldFiles, saved,
			logging.FieldPath, storePath)
	}
}

// reportResult renders a review run in the configured format.
func reportResult(ctx context.Context, cmd *cobra.Command, cfg *config.Config, flags *reviewFlags, workDir string, result *runner.Result) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowPreview: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

func addReviewFlags(cmd *cobra.Command, cfg *config.Config, flags *reviewFlags) {
	cmd.Flags().StringVar(&cfg.Provider.Name, "provider", "", "provider: openai, gemini, compatible")
	cmd.Flags().StringVar(&cfg.Provider.Model, "model", "", "model identifier")
	cmd.Flags().StringVar(&cfg.Provider.BaseURL, "base-url", "", "custom OpenAI-compatible endpoint")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, summary")
	cmd.Flags().IntVar(&cfg.Review.MaxProposals, "max-proposals", 0, "proposal cap per file (0 = configured default)")
	cmd.Flags().IntVar(&cfg.Review.Jobs, "jobs", 0, "number of parallel reviews (0 = configured default)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "restrict to file extensions (e.g. .go,.ts)")
	cmd.Flags().BoolVar(&cfg.NoSave, "no-save", false, "don't persist sessions for this run")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "treat warnings as findings for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide anchor and replacement previews")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}
