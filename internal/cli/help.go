package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/configloader"
	"github.com/yaklabco/hyperseq/internal/ui/pretty"
)

// minFlagGap is the smallest run of spaces pflag puts between a flag and its
// description.
const minFlagGap = 2

// HelpFormatter renders cobra help and usage with the CLI output styles.
type HelpFormatter struct {
	styles  *pretty.Styles
	envVars []configloader.EnvVar
}

// NewHelpFormatter creates a help formatter for writer under the given color
// mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))}
}

// SetEnvironment sets the environment variables listed in the root
// command's help.
func (h *HelpFormatter) SetEnvironment(vars []configloader.EnvVar) {
	h.envVars = vars
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}

{{- if not .HasParent}}{{with environment}}

{{ heading "Environment:" }}
{{ . }}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":     h.styles.Title.Render,
		"command":     h.styles.Bold.Render,
		"subcommand":  h.styles.VertexID.Render,
		"dim":         h.styles.Dim.Render,
		"flags":       h.flagUsages,
		"environment": h.environment,
		"rpad":        rpad,
		"trimRight":   trimTrailingWhitespace,
	}
}

// environment lists the environment variables in the layout of flag usages.
func (h *HelpFormatter) environment() string {
	width := 0
	for _, v := range h.envVars {
		width = max(width, len(v.Name))
	}

	lines := make([]string, 0, len(h.envVars))
	for _, v := range h.envVars {
		lines = append(lines, "  "+h.styles.Pattern.Render(rpad(v.Name, width))+"   "+v.Description)
	}
	return strings.Join(lines, "\n")
}

// flagUsages styles pflag's usage lines: flag names in the pattern style,
// value types dimmed, descriptions plain.
func (h *HelpFormatter) flagUsages(usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) flagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	names, description, ok := cutFlagLine(trimmed)
	if !ok {
		return line
	}

	fields := strings.Fields(names)
	for i, field := range fields {
		if !strings.HasPrefix(field, "-") {
			fields[i] = h.styles.Dim.Render(field)
			continue
		}
		name, comma := strings.CutSuffix(field, ",")
		fields[i] = h.styles.Pattern.Render(name)
		if comma {
			fields[i] += ","
		}
	}
	return indent + strings.Join(fields, " ") + "   " + description
}

// cutFlagLine splits "-f, --flag type   description" at the first gap of
// minFlagGap or more spaces.
func cutFlagLine(line string) (string, string, bool) {
	gap := strings.Repeat(" ", minFlagGap)
	before, after, found := strings.Cut(line, gap)
	if !found {
		return "", "", false
	}
	description := strings.TrimLeft(after, " ")
	if description == "" {
		return "", "", false
	}
	return before, description, true
}

// ApplyToCommand installs the styled help and usage functions on cmd. Cobra
// falls back to the parent's functions, so subcommands inherit them. An
// explicit --color on the command line replaces the construction-time mode.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(name, text string, command *cobra.Command) error {
		if flag := command.Flags().Lookup(flagColor); flag != nil && flag.Changed {
			h.styles = pretty.NewStyles(pretty.IsColorEnabled(flag.Value.String(), command.OutOrStdout()))
		}
		tmpl, err := template.New(name).Funcs(h.funcs()).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render("usage", usageTemplate, command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render("help", helpTemplate, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
