package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatIngestSummaryOneLine formats ingest statistics as a single line.
// Example: "Ingested 3 files (42 units, 1830 tokens), 212 new vertices, 1 skipped".
func (s *Styles) FormatIngestSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Warning.Render("No input files found") + "\n"
	}

	var parts []string

	head := fmt.Sprintf("Ingested %d %s", stats.FilesIngested, plural(stats.FilesIngested, wordFile, wordFiles))
	if stats.FilesErrored > 0 {
		head = s.Failure.Render(head)
	} else {
		head = s.Success.Render(head)
	}
	parts = append(parts, head+s.Dim.Render(fmt.Sprintf(" (%d %s, %d %s)",
		stats.UnitsIngested, plural(stats.UnitsIngested, "unit", "units"),
		stats.TokensIngested, plural(stats.TokensIngested, "token", "tokens"))))

	switch stats.VerticesAdded {
	case 0:
		parts = append(parts, "index unchanged")
	default:
		parts = append(parts, fmt.Sprintf("%d new %s",
			stats.VerticesAdded, plural(stats.VerticesAdded, "vertex", "vertices")))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatIngestSummary formats ingest statistics as a summary block.
func (s *Styles) FormatIngestSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.Title.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " + s.Value.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files ingested:    " + s.Value.Render(strconv.Itoa(stats.FilesIngested)) + "\n")
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " + s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Units:             " + s.Value.Render(strconv.Itoa(stats.UnitsIngested)) + "\n")
	builder.WriteString("  Tokens:            " + s.Value.Render(strconv.Itoa(stats.TokensIngested)) + "\n")
	builder.WriteString("  New vertices:      " + s.Value.Render(strconv.Itoa(stats.VerticesAdded)) + "\n")
	builder.WriteString("\n")

	if stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Ingest completed with errors"))
	} else {
		builder.WriteString(s.Success.Render("Ingest complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatGraphStats formats index statistics as a summary block.
func (s *Styles) FormatGraphStats(path string, stats hypergraph.Stats) string {
	var builder strings.Builder

	builder.WriteString(s.Title.Render("Index"))
	if path != "" {
		builder.WriteString(" " + s.Dim.Render(path))
	}
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	rows := []struct {
		label string
		value int
	}{
		{"Vertices:", stats.Vertices},
		{"  Leaves:", stats.Leaves},
		{"  Composites:", stats.Composites},
		{"Patterns:", stats.Patterns},
		{"Occurrences:", stats.Occurrences},
		{"Memoized splits:", stats.Splits},
		{"Widest vertex:", stats.MaxWidth},
	}
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("  %-19s", row.label))
		builder.WriteString(s.Value.Render(strconv.Itoa(row.value)))
		builder.WriteString("\n")
	}

	return builder.String()
}
