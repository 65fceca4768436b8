package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/hyperseq/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding      = 2
	tableColumnCount  = 5 // FILE, KIND, UNITS, TOKENS, STATUS
	numberColumnWidth = 8
	minFileWidth      = 20
	minKindWidth      = 8
	minStatusWidth    = 10
	heavySeparator    = "="
	lightSeparator    = "-"
	defaultTermWidth  = 100
)

// Row statuses.
const (
	statusIngested = "ingested"
	statusSkipped  = "skipped"
)

// TableRow represents a single row in the file table.
type TableRow struct {
	File   string
	Kind   string
	Units  int
	Tokens int
	Status string
	Failed bool
}

// TableFormatter formats ingest outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

type columnWidths struct {
	file   int
	kind   int
	status int
}

// FormatTable formats runner results as a styled table, one row per file.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, file := range result.Files {
		rows = append(rows, OutcomeToTableRow(file))
	}
	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths, lightSeparator))
	builder.WriteString("\n")
	builder.WriteString(t.FormatTableSummary(result.Stats, ""))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths sizes the columns to the content, giving the file
// column whatever the terminal has left.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{file: minFileWidth, kind: minKindWidth, status: minStatusWidth}
	longestFile := 0
	for _, row := range rows {
		longestFile = max(longestFile, len(row.File))
		widths.kind = max(widths.kind, len(row.Kind))
		widths.status = max(widths.status, len(row.Status))
	}

	fixed := widths.kind + 2*numberColumnWidth + tableColumnCount*tablePadding
	widths.file = max(minFileWidth, min(longestFile, t.termWidth-fixed-minStatusWidth))
	widths.status = min(widths.status, max(minStatusWidth, t.termWidth-fixed-widths.file))
	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.kind + 2*numberColumnWidth + widths.status + (tableColumnCount-1)*tablePadding
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	pad := strings.Repeat(" ", tablePadding)
	header := fmt.Sprintf("%-*s", widths.file, "FILE") + pad +
		fmt.Sprintf("%-*s", widths.kind, "KIND") + pad +
		fmt.Sprintf("%*s", numberColumnWidth, "UNITS") + pad +
		fmt.Sprintf("%*s", numberColumnWidth, "TOKENS") + pad +
		"STATUS"
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.calculateTotalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	pad := strings.Repeat(" ", tablePadding)
	line := fmt.Sprintf("%-*s", widths.file, truncateFilePath(row.File, widths.file)) + pad +
		fmt.Sprintf("%-*s", widths.kind, row.Kind) + pad +
		fmt.Sprintf("%*d", numberColumnWidth, row.Units) + pad +
		fmt.Sprintf("%*d", numberColumnWidth, row.Tokens) + pad

	status := truncateString(row.Status, widths.status)
	return line + t.getRowStyle(row).Render(status)
}

func (t *TableFormatter) getRowStyle(row TableRow) lipgloss.Style {
	switch {
	case row.Failed:
		return t.styles.Error
	case row.Status == statusSkipped:
		return t.styles.TableSkipped
	default:
		return t.styles.Success
	}
}

// FormatTableSummary formats the footer line below the table.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d %s", stats.FilesIngested, plural(stats.FilesIngested, wordFile, wordFiles)))
	parts = append(parts, strconv.Itoa(stats.TokensIngested)+" tokens")
	parts = append(parts, fmt.Sprintf("+%d vertices", stats.VerticesAdded))

	if stats.FilesSkipped > 0 {
		parts = append(parts, t.styles.TableSkipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}

// OutcomeToTableRow converts a file outcome to a table row.
func OutcomeToTableRow(file runner.FileOutcome) TableRow {
	row := TableRow{
		File:   file.Path,
		Kind:   file.Kind.String(),
		Units:  len(file.Roots),
		Tokens: file.Tokens,
		Status: statusIngested,
	}
	switch {
	case file.Error != nil:
		row.Status = file.Error.Error()
		row.Failed = true
	case file.Skipped:
		row.Status = statusSkipped
	}
	return row
}
