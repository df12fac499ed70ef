package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/store"
)

const formatJSON = "json"

type sessionsFlags struct {
	limit  int
	format string
}

func newSessionsCommand() *cobra.Command {
	flags := &sessionsFlags{}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and manage stored review sessions",
		Long: `List stored review sessions, newest first.

Each 'gorevise review' saves one session per reviewed file. Sessions
hold the proposals that 'gorevise apply' replays, keyed by a session id
that any unambiguous prefix can stand in for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSessionsList(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.limit, "limit", 20, "maximum sessions to list (0 = all)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	cmd.AddCommand(newSessionsShowCommand())
	cmd.AddCommand(newSessionsRmCommand())
	cmd.AddCommand(newSessionsPruneCommand())

	return cmd
}

func runSessionsList(cmd *cobra.Command, flags *sessionsFlags) error {
	ctx := commandContext(cmd)

	finalCfg, workDir, err := loadConfig(ctx, cmd, &config.Config{})
	if err != nil {
		return err
	}

	st, err := openStore(finalCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.List(ctx, flags.limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if flags.format == formatJSON {
		if sessions == nil {
			sessions = []store.Session{}
		}
		return encodeJSON(cmd, sessions)
	}

	logger := logging.NewInteractive()

	if len(sessions) == 0 {
		logger.Info("no sessions stored")
		logger.Info("run 'gorevise review' to create one")
		return nil
	}

	for _, session := range sessions {
		logger.Info(shortID(session.ID),
			logging.FieldPath, displayPath(workDir, session.Path),
			logging.FieldProposals, session.ProposalCount,
			logging.FieldScore, session.Score,
			logging.FieldCreated, session.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	return nil
}

func newSessionsShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session with its proposals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsShow(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func runSessionsShow(cmd *cobra.Command, id, format string) error {
	ctx := commandContext(cmd)

	finalCfg, workDir, err := loadConfig(ctx, cmd, &config.Config{})
	if err != nil {
		return err
	}

	st, err := openStore(finalCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	session, err := st.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if format == formatJSON {
		return encodeJSON(cmd, session)
	}

	logger := logging.NewInteractive()
	logger.Info(displayPath(workDir, session.Path),
		logging.FieldSession, session.ID,
		logging.FieldProvider, session.Provider,
		logging.FieldModel, session.Model,
		logging.FieldProposals, session.ProposalCount,
		logging.FieldScore, session.Score,
		logging.FieldCreated, session.CreatedAt.Local().Format("2006-01-02 15:04"),
	)
	if session.Summary != "" {
		logger.Info(session.Summary)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	for i := range session.Proposals {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.FormatProposal(&session.Proposals[i], true))
	}

	return nil
}

func newSessionsRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsRm(cmd, args[0])
		},
	}

	return cmd
}

func runSessionsRm(cmd *cobra.Command, id string) error {
	ctx := commandContext(cmd)

	finalCfg, _, err := loadConfig(ctx, cmd, &config.Config{})
	if err != nil {
		return err
	}

	st, err := openStore(finalCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Resolve prefixes first so rm accepts the same ids show does.
	session, err := st.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := st.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	logging.NewInteractive().Info("session deleted",
		logging.FieldSession, shortID(session.ID),
		logging.FieldPath, session.Path,
	)
	return nil
}

func newSessionsPruneCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSessionsPrune(cmd, keep)
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "number of newest sessions to keep")

	return cmd
}

func runSessionsPrune(cmd *cobra.Command, keep int) error {
	ctx := commandContext(cmd)

	finalCfg, _, err := loadConfig(ctx, cmd, &config.Config{})
	if err != nil {
		return err
	}

	st, err := openStore(finalCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.Prune(ctx, keep)
	if err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	logging.NewInteractive().Info("sessions pruned",
		logging.FieldRemoved, removed,
		logging.FieldKept, keep,
	)
	return nil
}

// encodeJSON writes v to the command's stdout as indented JSON.
func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// displayPath shortens path to be relative to workDir when it sits
// underneath it.
func displayPath(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
