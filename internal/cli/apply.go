package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/document"
	"github.com/yaklabco/gorevise/pkg/fsutil"
	"github.com/yaklabco/gorevise/pkg/patch"
	"github.com/yaklabco/gorevise/pkg/reporter"
	"github.com/yaklabco/gorevise/pkg/review"
	"github.com/yaklabco/gorevise/pkg/store"
)

// ErrApplyFailed is returned when one or more proposals failed at the
// editor during apply.
var ErrApplyFailed = errors.New("apply failed")

type applyFlags struct {
	sessionID    string
	latest       bool
	all          bool
	proposalIDs  []string
	lineFallback bool
	backup       bool
	format       string
}

func newApplyCommand() *cobra.Command {
	var cfg config.Config
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply <path>",
		Short: "Apply proposals from a review session to a file",
		Long:  applyLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], &cfg, flags)
		},
	}

	addApplyFlags(cmd, &cfg, flags)
	cmd.MarkFlagsMutuallyExclusive("session", "latest")

	return cmd
}

const applyLongDescription = `Apply edit proposals from a stored review session to a file.

By default, the latest session for the file is used and each proposal
is confirmed interactively. Anchors are re-resolved against the file's
current content, so proposals stay correct even when earlier edits have
shifted the text. Anchors that no longer match are reported, not
guessed at; pass --line-fallback to allow the imprecise line-range
replacement after an extra confirmation.

Examples:
  gorevise apply main.go                  # Confirm each proposal
  gorevise apply main.go --all            # Apply everything in one batch
  gorevise apply main.go --dry-run --all  # Show the diff, write nothing
  gorevise apply main.go --session 3f2a   # Pick a session by id prefix
  gorevise apply main.go --proposals a1,b2  # Only these proposals`

func runApply(cmd *cobra.Command, path string, cfg *config.Config, flags *applyFlags) error {
	logger := logging.Default()

	ctx := commandContext(cmd)

	if flags.backup {
		cfg.Apply.Backups.Enabled = true
	}

	finalCfg, workDir, err := loadConfig(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	format := flags.format
	if format != "text" && format != "json" {
		return fmt.Errorf("%w: invalid apply format %q (want text or json)", errUsage, format)
	}

	// JSON output cannot host interactive prompts.
	if format == "json" && !flags.all && !finalCfg.Yes && !finalCfg.DryRun {
		return fmt.Errorf("%w: --format json requires --all, --yes, or --dry-run", errUsage)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	session, err := resolveSession(ctx, finalCfg, flags, absPath)
	if err != nil {
		return err
	}

	proposals, err := selectProposals(session, flags.proposalIDs)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		logger.Info("session has no proposals to apply",
			logging.FieldSession, shortID(session.ID))
		return nil
	}

	content, snap, err := fsutil.ReadFile(ctx, absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if session.SourceHash != "" && session.SourceHash != snap.HexHash() {
		logger.Warn("file changed since it was reviewed; anchors may no longer match",
			logging.FieldPath, path,
			logging.FieldSession, shortID(session.ID))
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	doc := document.New(absPath, string(content))
	editor := document.BufferEditor{}

	var result *patch.BatchResult
	if flags.all {
		applier := patch.NewBatchApplier(editor)
		result, err = applier.Apply(ctx, doc, proposals)
		if err != nil {
			return fmt.Errorf("apply batch: %w", err)
		}
		if format == "text" {
			printOutcomes(out, styles, result, proposals)
		}
	} else {
		result, err = applyInteractive(ctx, cmd, finalCfg, flags, styles, doc, editor, proposals, format == "text")
		if err != nil {
			return err
		}
	}

	if format == "text" {
		fmt.Fprint(out, styles.FormatApplySummary(result))
	}

	if finalCfg.DryRun {
		// The diff belongs to text output; JSON consumers get the
		// outcome list instead.
		if format == "text" {
			if err := printDryRunDiff(out, colorMode, workDir, absPath, string(content), doc); err != nil {
				return err
			}
		}
	} else if result.Changed() {
		if err := writeBack(ctx, logger, finalCfg, absPath, doc, snap); err != nil {
			return err
		}
	}

	if format == "json" {
		if err := printApplyJSON(out, absPath, session.ID, finalCfg.DryRun, result); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return ErrApplyFailed
	}
	return nil
}

// resolveSession picks the session to apply: an explicit id (exact or
// prefix) when given, otherwise the newest session for the file.
func resolveSession(ctx context.Context, cfg *config.Config, flags *applyFlags, absPath string) (*store.Session, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if flags.sessionID != "" {
		session, err := st.Get(ctx, flags.sessionID)
		if err != nil {
			return nil, fmt.Errorf("session %q: %w", flags.sessionID, err)
		}
		return session, nil
	}

	session, err := st.LatestForPath(ctx, absPath)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, fmt.Errorf("no session for %s (run 'gorevise review' first): %w", absPath, err)
		}
		return nil, fmt.Errorf("latest session for %s: %w", absPath, err)
	}
	return session, nil
}

// openStore opens the configured session store.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate session store: %w", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return st, nil
}

// selectProposals filters a session's proposals by the requested ids.
// Each id matches exactly or as a prefix; an id matching nothing is a
// usage error so a typo never silently applies the wrong subset.
func selectProposals(session *store.Session, ids []string) ([]review.Proposal, error) {
	if len(ids) == 0 {
		return session.Proposals, nil
	}

	selected := make([]review.Proposal, 0, len(ids))
	for _, id := range ids {
		found := false
		for _, proposal := range session.Proposals {
			if proposal.ID == id || strings.HasPrefix(proposal.ID, id) {
				selected = append(selected, proposal)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no proposal matches %q in session %s",
				errUsage, id, shortID(session.ID))
		}
	}
	return selected, nil
}

// applyInteractive walks proposals one at a time through a single
// applier, confirming each application per the active policy.
func applyInteractive(ctx context.Context, cmd *cobra.Command, cfg *config.Config, flags *applyFlags, styles *pretty.Styles, doc *document.Document, editor document.Editor, proposals []review.Proposal, printText bool) (*patch.BatchResult, error) {
	policy, err := confirmationPolicy(cmd, cfg, styles)
	if err != nil {
		return nil, err
	}

	applier := patch.NewSingleApplier(editor, policy)
	out := cmd.OutOrStdout()
	result := &patch.BatchResult{Outcomes: make([]patch.Outcome, 0, len(proposals))}

	for _, proposal := range proposals {
		outcome, err := applier.ApplyOne(ctx, doc, proposal, flags.lineFallback)
		if err != nil {
			return nil, fmt.Errorf("apply proposal %s: %w", proposal.ID, err)
		}
		result.Record(outcome)
		if printText {
			fmt.Fprint(out, styles.FormatOutcome(outcome, proposal))
		}
	}

	return result, nil
}

// printOutcomes renders batch outcomes in proposal order.
func printOutcomes(out io.Writer, styles *pretty.Styles, result *patch.BatchResult, proposals []review.Proposal) {
	byID := make(map[string]review.Proposal, len(proposals))
	for _, proposal := range proposals {
		byID[proposal.ID] = proposal
	}
	for _, outcome := range result.Outcomes {
		fmt.Fprint(out, styles.FormatOutcome(outcome, byID[outcome.ProposalID]))
	}
}

// printDryRunDiff shows what apply would have written.
func printDryRunDiff(out io.Writer, colorMode, workDir, absPath, original string, doc *document.Document) error {
	diff := patch.GenerateDiff(absPath, original, doc.Content())
	if !diff.HasChanges() {
		fmt.Fprintln(out, "dry run: no changes")
		return nil
	}

	printer := reporter.NewDiffPrinter(reporter.Options{
		Writer:     out,
		Color:      colorMode,
		WorkingDir: workDir,
	})
	printer.Print(diff)
	return nil
}

// writeBack persists the edited document, creating a backup first when
// backups are enabled.
func writeBack(ctx context.Context, logger *log.Logger, cfg *config.Config, absPath string, doc *document.Document, snap *fsutil.Snapshot) error {
	backupCfg := fsutil.BackupConfig{
		Enabled: cfg.Apply.Backups.Enabled,
		Mode:    fsutil.BackupMode(cfg.Apply.Backups.Mode),
	}
	created, err := fsutil.CreateBackup(ctx, absPath, backupCfg)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if created {
		logger.Info("backup created",
			logging.FieldPath, fsutil.BackupPath(absPath, backupCfg.Mode))
	}

	if err := fsutil.WriteAtomic(ctx, absPath, []byte(doc.Content()), snap.Mode); err != nil {
		return fmt.Errorf("write %s: %w", absPath, err)
	}

	logger.Info("file updated", logging.FieldPath, absPath)
	return nil
}

// applyJSONOutcome is one proposal outcome in JSON apply output.
type applyJSONOutcome struct {
	ProposalID string `json:"proposalId"`
	Status     string `json:"status"`
	Method     string `json:"method"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Clamped    bool   `json:"clamped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// applyJSONOutput is the JSON shape of one apply run.
type applyJSONOutput struct {
	Path           string             `json:"path"`
	SessionID      string             `json:"sessionId"`
	DryRun         bool               `json:"dryRun"`
	Applied        int                `json:"applied"`
	NotFound       int                `json:"notFound"`
	SkippedOverlap int                `json:"skippedOverlap"`
	Failed         int                `json:"failed"`
	Declined       int                `json:"declined"`
	Outcomes       []applyJSONOutcome `json:"outcomes"`
}

func printApplyJSON(out io.Writer, path, sessionID string, dryRun bool, result *patch.BatchResult) error {
	output := applyJSONOutput{
		Path:           path,
		SessionID:      sessionID,
		DryRun:         dryRun,
		Applied:        result.Applied,
		NotFound:       result.NotFound,
		SkippedOverlap: result.SkippedOverlap,
		Failed:         result.Failed,
		Outcomes:       make([]applyJSONOutcome, 0, len(result.Outcomes)),
	}

	for _, outcome := range result.Outcomes {
		if outcome.Status == patch.StatusDeclined {
			output.Declined++
		}
		jsonOutcome := applyJSONOutcome{
			ProposalID: outcome.ProposalID,
			Status:     string(outcome.Status),
			Method:     string(outcome.Method),
			Start:      outcome.Span.Start,
			End:        outcome.Span.End,
			Clamped:    outcome.Clamped,
		}
		if outcome.Err != nil {
			jsonOutcome.Error = outcome.Err.Error()
		}
		output.Outcomes = append(output.Outcomes, jsonOutcome)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encode apply result: %w", err)
	}
	return nil
}

// shortID abbreviates a session UUID for log output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func addApplyFlags(cmd *cobra.Command, cfg *config.Config, flags *applyFlags) {
	cmd.Flags().StringVar(&flags.sessionID, "session", "", "session id or unique prefix")
	cmd.Flags().BoolVar(&flags.latest, "latest", false, "use the newest session for the file (default)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "apply all proposals in one batch, no prompts")
	cmd.Flags().StringSliceVar(&flags.proposalIDs, "proposals", nil, "apply only these proposal ids (exact or prefix)")
	cmd.Flags().BoolVar(&flags.lineFallback, "line-fallback", false, "allow whole-line replacement when an anchor is missing")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show the resulting diff without writing")
	cmd.Flags().BoolVar(&cfg.Yes, "yes", false, "approve every proposal without prompting")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "create a sidecar backup before writing")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
}
