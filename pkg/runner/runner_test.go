package runner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/runner"
	"github.com/yaklabco/hyperseq/pkg/tokenize"
)

func newRunner(t *testing.T, opts tokenize.Options) *runner.Runner {
	t.Helper()

	tok, err := tokenize.New(opts)
	require.NoError(t, err)
	return runner.New(hypergraph.New[rune](), tok)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	r := newRunner(t, tokenize.Options{})
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFailures())
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "Hello world!\nabab\n", "a.txt")
	writeTree(t, dir, "# Hello\n\nworld *wide* web\n", "b.md")
	writeTree(t, dir, "\x00\x01\x02binary", "c.txt")
	writeTree(t, dir, "\n\n", "d.txt")

	for _, stream := range []bool{false, true} {
		t.Run(map[bool]string{false: "sync", true: "stream"}[stream], func(t *testing.T) {
			t.Parallel()

			r := newRunner(t, tokenize.Options{Unit: tokenize.UnitLine, Markdown: true})
			var progress []string
			result, err := r.Run(context.Background(), runner.Options{
				WorkingDir: dir,
				Jobs:       2,
				Stream:     stream,
				Progress: func(outcome runner.FileOutcome) {
					progress = append(progress, filepath.Base(outcome.Path))
				},
			})
			require.NoError(t, err)

			assert.Equal(t, []string{"a.txt", "b.md", "c.txt", "d.txt"}, progress)
			assert.Equal(t, runner.Stats{
				FilesDiscovered: 4,
				FilesIngested:   2,
				FilesSkipped:    2,
				UnitsIngested:   4,
				TokensIngested:  len("Hello world!") + len("abab") + len("Hello") + len("world wide web"),
				VerticesAdded:   r.Graph.Len(),
			}, result.Stats)

			assert.Equal(t, tokenize.KindMarkdown, result.Files[1].Kind)
			assert.Equal(t, tokenize.KindBinary, result.Files[2].Kind)
			require.NotNil(t, result.Files[0].Info)

			for _, text := range []string{"Hello world!", "abab", "Hello", "world wide web"} {
				info, ok := r.Graph.Query([]rune(text))
				require.True(t, ok, "query %q", text)
				assert.Equal(t, text, string(info.Tokens))
			}
			require.NoError(t, r.Graph.Validate())
		})
	}
}

func TestRunner_Run_Deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "mississippi river", "1.txt")
	writeTree(t, dir, "missing the river", "2.txt")
	writeTree(t, dir, "sip of water", "3.txt")
	writeTree(t, dir, "the water is wide", "4.txt")

	export := func(jobs int, stream bool) hypergraph.Dump[rune] {
		r := newRunner(t, tokenize.Options{})
		_, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: jobs, Stream: stream})
		require.NoError(t, err)
		return r.Graph.Export()
	}

	want := export(1, false)
	assert.Equal(t, want, export(4, false))
	assert.Equal(t, want, export(3, true))
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "some text", "a.txt", "b.txt")

	ctx, cancel := context.WithCancel(context.Background())
	r := newRunner(t, tokenize.Options{})
	_, err := r.Run(ctx, runner.Options{
		WorkingDir: dir,
		Progress:   func(runner.FileOutcome) { cancel() },
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, r.Graph.Validate())
}
