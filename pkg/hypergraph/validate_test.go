package hypergraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

func TestExportRestore(t *testing.T) {
	t.Parallel()

	g := hypergraph.New[rune]()
	for _, input := range []string{"abab", "ba", "Hello world!", "world"} {
		ingest(t, g, input)
	}
	_, _, err := g.SplitAt(ingest(t, g, "Hello world!").ID, 3)
	require.NoError(t, err)

	dump := g.Export()
	require.NotEmpty(t, dump.Splits)

	var seen counter
	restored, err := hypergraph.Restore(dump, hypergraph.WithObserver(&seen))
	require.NoError(t, err)
	assert.Equal(t, dump, restored.Export())
	assert.Zero(t, seen.vertices, "restore does not notify")
	assert.Equal(t, g.Stats(), restored.Stats())

	// Both graphs keep growing identically.
	for _, input := range []string{"worldly", "Hell", "abba"} {
		assert.Equal(t, ingest(t, g, input), ingest(t, restored, input), "input %q", input)
	}
	assert.Equal(t, g.Export(), restored.Export())
	assert.Positive(t, seen.vertices)
}

func TestRestore_Rejects(t *testing.T) {
	t.Parallel()

	a := hypergraph.Child{ID: 0, Width: 1}
	b := hypergraph.Child{ID: 1, Width: 1}
	leaves := []hypergraph.LeafRecord[rune]{{ID: 0, Token: 'a'}, {ID: 1, Token: 'b'}}

	tests := []struct {
		name string
		dump hypergraph.Dump[rune]
		want error
	}{
		{
			name: "zero width",
			dump: hypergraph.Dump[rune]{
				Leaves:   leaves,
				Vertices: []hypergraph.VertexRecord{{Width: 1}, {Width: 1}, {Width: 0}},
			},
			want: hypergraph.ErrWidthMismatch,
		},
		{
			name: "pattern width",
			dump: hypergraph.Dump[rune]{
				Leaves:   leaves,
				Vertices: []hypergraph.VertexRecord{{Width: 1}, {Width: 1}, {Width: 3, Patterns: []hypergraph.Pattern{{a, b}}}},
			},
			want: hypergraph.ErrWidthMismatch,
		},
		{
			name: "unknown child",
			dump: hypergraph.Dump[rune]{
				Leaves:   leaves,
				Vertices: []hypergraph.VertexRecord{{Width: 1}, {Width: 1}, {Width: 2, Patterns: []hypergraph.Pattern{{a, {ID: 7, Width: 1}}}}},
			},
			want: hypergraph.ErrUnknownVertex,
		},
		{
			name: "leaf without token",
			dump: hypergraph.Dump[rune]{
				Leaves:   leaves[:1],
				Vertices: []hypergraph.VertexRecord{{Width: 1}, {Width: 1}},
			},
			want: hypergraph.ErrWidthMismatch,
		},
		{
			name: "duplicate content",
			dump: hypergraph.Dump[rune]{
				Leaves: leaves,
				Vertices: []hypergraph.VertexRecord{
					{Width: 1},
					{Width: 1},
					{Width: 2, Patterns: []hypergraph.Pattern{{a, b}}},
					{Width: 2, Patterns: []hypergraph.Pattern{{a, b}}},
				},
			},
			want: hypergraph.ErrPatternMismatch,
		},
		{
			name: "bad split memo",
			dump: hypergraph.Dump[rune]{
				Leaves:   leaves,
				Vertices: []hypergraph.VertexRecord{{Width: 1}, {Width: 1}, {Width: 2, Patterns: []hypergraph.Pattern{{a, b}}}},
				Splits:   []hypergraph.SplitRecord{{Vertex: 2, Offset: 1, Prefix: a, Postfix: hypergraph.Child{ID: 2, Width: 2}}},
			},
			want: hypergraph.ErrRangeNotContained,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := hypergraph.Restore(tt.dump)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_AfterHeavySplitting(t *testing.T) {
	t.Parallel()

	g := hypergraph.New[rune]()
	inputs := []string{"abracadabra", "cadabra", "dab", "abrac", "racad", "bra"}
	for _, input := range inputs {
		ingest(t, g, input)
	}
	require.NoError(t, g.Validate())

	for _, input := range inputs {
		info, ok := g.Query([]rune(input))
		require.True(t, ok, "query %q", input)
		assert.Equal(t, input, string(info.Tokens))
	}
}
