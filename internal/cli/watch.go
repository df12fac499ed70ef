package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/fsutil"
	"github.com/yaklabco/gorevise/pkg/langdetect"
	"github.com/yaklabco/gorevise/pkg/provider"
	"github.com/yaklabco/gorevise/pkg/reporter"
	"github.com/yaklabco/gorevise/pkg/runner"
	"github.com/yaklabco/gorevise/pkg/watch"
)

func newWatchCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-review files automatically as they change",
		Long:  watchLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Provider.Name, "provider", "", "provider: openai, gemini, compatible")
	cmd.Flags().StringVar(&cfg.Provider.Model, "model", "", "model identifier")
	cmd.Flags().IntVar(&cfg.Watch.DebounceMS, "debounce", 0, "settle time in milliseconds before re-reviewing (0 = configured default)")

	return cmd
}

const watchLongDescription = `Watch files and directories, re-reviewing each file after it settles.

Changes are debounced per file: a burst of saves produces one review
once the file stays quiet for the settle window. Reviews are saved to
the session store like 'gorevise review', so 'gorevise apply' picks up
the latest proposals at any time. Stop with Ctrl-C.

Examples:
  gorevise watch                    # Watch the current directory
  gorevise watch src/ main.go       # Watch a directory and a file
  gorevise watch --debounce 2000    # Wait 2s of quiet before reviewing`

func runWatch(cmd *cobra.Command, args []string, cfg *config.Config) error {
	logger := logging.Default()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finalCfg, workDir, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	client, err := provider.New(ctx, finalCfg.Provider)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	service := provider.NewService(client, finalCfg.Review.MaxProposals)
	reviewRunner := runner.New(service)

	// Watch output is always the text reporter; a stream of JSON
	// documents interleaved with log lines helps nobody.
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.FormatText,
		Color:       colorMode,
		ShowPreview: true,
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	// Settle callbacks run on timer goroutines; one review at a time
	// keeps provider load and terminal output sane.
	var reviewMu sync.Mutex
	onSettle := func(path string) {
		reviewMu.Lock()
		defer reviewMu.Unlock()

		if ctx.Err() != nil {
			return
		}

		relPath := path
		if rel, relErr := filepath.Rel(workDir, path); relErr == nil {
			relPath = rel
		}
		logger.Info("change settled, reviewing", logging.FieldPath, relPath)

		result, runErr := reviewRunner.Run(ctx, runner.Options{
			Paths:        []string{path},
			WorkingDir:   workDir,
			Extensions:   finalCfg.Review.Extensions,
			ExcludeGlobs: finalCfg.Review.Ignore,
			Jobs:         1,
		})
		if runErr != nil {
			if ctx.Err() == nil {
				logger.Error("review failed", logging.FieldPath, relPath, logging.FieldError, runErr)
			}
			return
		}
		if len(result.Files) == 0 {
			logger.Debug("file excluded by configuration", logging.FieldPath, relPath)
			return
		}

		saveSessions(ctx, logger, finalCfg, result)

		if _, repErr := rep.Report(ctx, result); repErr != nil && ctx.Err() == nil {
			logger.Error("report results", logging.FieldError, repErr)
		}
	}

	watcher, err := watch.New(watch.Options{
		Debounce: finalCfg.Watch.Debounce(),
		Filter:   watchFilter(finalCfg),
		OnSettle: onSettle,
		OnError: func(watchErr error) {
			logger.Warn("watch error", logging.FieldError, watchErr)
		},
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	logger.Info("watching for changes",
		logging.FieldPaths, paths,
		logging.FieldDebounce, finalCfg.Watch.Debounce().String(),
	)

	<-ctx.Done()
	logger.Info("watch stopped")
	return nil
}

// watchFilter reports whether a changed file is worth a debounce timer.
// Review-time discovery applies the ignore globs again, so this only
// needs to be cheap and roughly right.
func watchFilter(cfg *config.Config) func(path string) bool {
	extensions := cfg.Review.Extensions
	if len(extensions) == 0 {
		extensions = langdetect.DefaultExtensions()
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return func(path string) bool {
		if strings.HasSuffix(path, fsutil.BackupSuffix) {
			return false
		}
		_, ok := allowed[strings.ToLower(filepath.Ext(path))]
		return ok
	}
}
