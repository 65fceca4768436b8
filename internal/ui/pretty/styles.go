// Package pretty renders vertices, tables and ingest summaries for the
// terminal with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds one lipgloss style per output role.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style

	// Vertex rendering: "v12 w=3 "abc"", its patterns and leaf marks.
	VertexID lipgloss.Style
	Text     lipgloss.Style
	Width    lipgloss.Style
	Pattern  lipgloss.Style
	Leaf     lipgloss.Style

	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style

	TableHeader    lipgloss.Style
	TableSkipped   lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// ANSI colors by role.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorLight  = "7"
	colorGrey   = "8"
)

// NewStyles returns colored styles, or plain ones that render text
// unchanged when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	style := func(color string, bold bool) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !colorEnabled {
			return s
		}
		if color != "" {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s.Bold(bold)
	}

	return &Styles{
		Error:   style(colorRed, true),
		Warning: style(colorYellow, true),
		Success: style(colorGreen, true),
		Failure: style(colorRed, true),

		VertexID: style(colorCyan, false),
		Text:     style(colorLight, false),
		Width:    style(colorGrey, false),
		Pattern:  style(colorBlue, false),
		Leaf:     style(colorGreen, false),

		Title: style("", true),
		Label: style("", false),
		Value: style("", true),

		TableHeader:    style(colorLight, true),
		TableSkipped:   style(colorGrey, false).Italic(colorEnabled),
		TableSeparator: style(colorGrey, false),

		Dim:  style(colorGrey, false),
		Bold: style("", true),
	}
}

// IsColorEnabled reports whether output to writer should be colored. mode is
// "always", "never" or "auto"; anything else counts as auto. Auto colors
// only terminals, and never when NO_COLOR is set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
