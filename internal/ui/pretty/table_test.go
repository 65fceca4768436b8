package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hyperseq/internal/ui/pretty"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/runner"
	"github.com/yaklabco/hyperseq/pkg/tokenize"
)

func TestFormatTable_Empty(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	assert.Empty(t, formatter.FormatTable(nil))
	assert.Empty(t, formatter.FormatTable(&runner.Result{}))
}

func TestFormatTable_Rows(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 100)

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:   "docs/guide.md",
				Kind:   tokenize.KindMarkdown,
				Roots:  []hypergraph.Child{{ID: 4, Width: 5}, {ID: 9, Width: 7}},
				Tokens: 12,
			},
			{Path: "logo.png", Kind: tokenize.KindBinary, Skipped: true},
			{Path: "missing.txt", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesIngested:   1,
			FilesSkipped:    1,
			FilesErrored:    1,
			TokensIngested:  12,
			VerticesAdded:   6,
		},
	}

	out := formatter.FormatTable(result)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "TOKENS")
	assert.Contains(t, lines[0], "STATUS")
	assert.True(t, strings.HasPrefix(lines[1], "===="))

	assert.Contains(t, out, "docs/guide.md")
	assert.Contains(t, out, "markdown")
	assert.Contains(t, out, "ingested")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "1 file | 12 tokens | +6 vertices | 1 skipped | 1 failed")
}

func TestOutcomeToTableRow(t *testing.T) {
	row := pretty.OutcomeToTableRow(runner.FileOutcome{
		Path:   "a.txt",
		Roots:  []hypergraph.Child{{ID: 1, Width: 3}},
		Tokens: 3,
	})
	assert.Equal(t, pretty.TableRow{File: "a.txt", Kind: "text", Units: 1, Tokens: 3, Status: "ingested"}, row)

	row = pretty.OutcomeToTableRow(runner.FileOutcome{Path: "b.txt", Error: errors.New("boom")})
	assert.True(t, row.Failed)
	assert.Equal(t, "boom", row.Status)
}

func TestFormatTable_TruncatesLongPaths(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 60)

	long := strings.Repeat("nested/", 12) + "file.txt"
	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: long, Tokens: 1}},
		Stats: runner.Stats{FilesIngested: 1, TokensIngested: 1},
	}

	out := formatter.FormatTable(result)
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "file.txt")
}
