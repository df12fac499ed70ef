package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/document"
	"github.com/yaklabco/gorevise/pkg/patch"
	"github.com/yaklabco/gorevise/pkg/review"
)

// confirmationPolicy selects the policy for interactive apply: auto
// approval for --yes and dry runs, prompts otherwise. Prompting needs
// a real terminal; piped stdin gets a usage error instead of a hang.
func confirmationPolicy(cmd *cobra.Command, cfg *config.Config, styles *pretty.Styles) (patch.ConfirmationPolicy, error) {
	if cfg.Yes || cfg.DryRun {
		return patch.AutoApprove{}, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("%w: interactive apply requires a terminal; use --yes, --all, or --dry-run", errUsage)
	}
	return newTerminalPolicy(cmd.InOrStdin(), cmd.OutOrStdout(), styles), nil
}

// terminalPolicy confirms proposals through terminal prompts. Exact
// anchor matches take a y/N answer; the line-range fallback loses the
// exact-match guarantee, so it demands a typed "yes".
type terminalPolicy struct {
	in     *bufio.Reader
	out    io.Writer
	styles *pretty.Styles
}

func newTerminalPolicy(in io.Reader, out io.Writer, styles *pretty.Styles) *terminalPolicy {
	return &terminalPolicy{
		in:     bufio.NewReader(in),
		out:    out,
		styles: styles,
	}
}

// ConfirmExact shows the proposal and asks for approval.
func (p *terminalPolicy) ConfirmExact(_ *document.Document, proposal review.Proposal, _ patch.Span) (bool, error) {
	fmt.Fprint(p.out, p.styles.FormatProposal(&proposal, true))
	return p.ask("Apply this change? [y/N] ", false)
}

// ConfirmFallback warns that the anchor is gone and what the whole-line
// replacement will clobber before asking.
func (p *terminalPolicy) ConfirmFallback(doc *document.Document, proposal review.Proposal, span patch.Span, clamped bool) (bool, error) {
	fmt.Fprint(p.out, p.styles.FormatProposal(&proposal, true))

	startLine, _ := doc.LineAt(span.Start)
	endLine := startLine
	if span.End > span.Start {
		endLine, _ = doc.LineAt(span.End - 1)
	}

	warning := fmt.Sprintf("anchor not found; this replaces lines %d-%d entirely", startLine, endLine)
	if clamped {
		warning += " (range clamped to the file)"
	}
	fmt.Fprintln(p.out, p.styles.Warning.Render(warning))

	return p.ask("Replace these lines? Type 'yes' to confirm: ", true)
}

// ask reads one answer line. EOF counts as a decline so a closed stdin
// never applies anything.
func (p *terminalPolicy) ask(prompt string, requireFullYes bool) (bool, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if requireFullYes {
		return answer == "yes", nil
	}
	return answer == "y" || answer == "yes", nil
}
