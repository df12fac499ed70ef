package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/ui/pretty"
)

// helpPalette holds the lipgloss styles used when rendering --help
// output. With color disabled every style is a no-op.
type helpPalette struct {
	heading lipgloss.Style
	command lipgloss.Style
	sub     lipgloss.Style
	flag    lipgloss.Style
	example lipgloss.Style
	muted   lipgloss.Style
}

func newHelpPalette(colorEnabled bool) helpPalette {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpPalette{
			heading: plain,
			command: plain,
			sub:     plain,
			flag:    plain,
			example: plain,
			muted:   plain,
		}
	}

	return helpPalette{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		sub:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		example: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// styleHelp installs styled usage and help rendering on cmd and, via
// cobra's inheritance, on every subcommand. Templates are parsed once;
// the installed closures only execute them.
func styleHelp(cmd *cobra.Command, colorMode string, writer io.Writer) {
	palette := newHelpPalette(pretty.IsColorEnabled(colorMode, writer))

	funcs := template.FuncMap{
		"heading": palette.heading.Render,
		"cmd":     palette.command.Render,
		"sub":     palette.sub.Render,
		"example": palette.example.Render,
		"dim":     palette.muted.Render,
		"flags":   palette.renderFlagUsages,
		"join":    strings.Join,
		"rpad":    rpad,
		"trim":    trimTrailingSpace,
	}

	usageTmpl, usageErr := template.New("usage").Funcs(funcs).Parse(usageTemplate)
	helpTmpl, helpErr := template.New("help").Funcs(funcs).Parse(helpTemplate)

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if usageErr != nil {
			return fmt.Errorf("parse usage template: %w", usageErr)
		}
		return usageTmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if helpErr != nil {
			command.PrintErrln(helpErr)
			return
		}
		if err := helpTmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// Section ordering follows cobra's defaults so help reads the same as
// any other CLI, just styled.
const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ cmd .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ cmd .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ sub (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ heading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ sub (rpad .CommandPath .CommandPathPadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ cmd (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ cmd .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trim }}

{{end}}` + usageTemplate

// flagLine matches one pflag usage line: indentation, the flag
// definition, a gap of two or more spaces, then the description.
// Wrapped description continuations have no dash and pass through.
var flagLine = regexp.MustCompile(`^(\s*)(-[^ ]+(?: [^ ]+)*?)(\s{2,})(.*)$`)

// renderFlagUsages styles the output of pflag's FlagUsages line by line.
func (p helpPalette) renderFlagUsages(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = m[1] + p.renderFlagDef(m[2]) + m[3] + m[4]
	}

	return strings.Join(lines, "\n")
}

// renderFlagDef styles "-f, --force string": flag tokens get the flag
// color, type tokens are dimmed.
func (p helpPalette) renderFlagDef(def string) string {
	tokens := strings.Fields(def)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			name, comma := strings.CutSuffix(token, ",")
			styled := p.flag.Render(name)
			if comma {
				styled += ","
			}
			tokens[i] = styled
		} else {
			tokens[i] = p.muted.Render(token)
		}
	}

	return strings.Join(tokens, " ")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
