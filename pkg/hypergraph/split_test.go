package hypergraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

func TestSplitAt(t *testing.T) {
	t.Parallel()

	var seen counter
	g := hypergraph.New[rune](hypergraph.WithObserver(&seen))
	abcd := ingest(t, g, "abcd")
	ab, ok := g.Query([]rune("ab"))
	require.True(t, ok)

	prefix, postfix, err := g.SplitAt(abcd.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, ab.Child(), prefix, "existing vertex is reused as prefix")
	assert.Equal(t, "cd", text(t, g, postfix.ID))
	assert.Equal(t, 2, seen.splits, "abc is split on the way down")

	size := g.Len()
	again, againPost, err := g.SplitAt(abcd.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, prefix, again)
	assert.Equal(t, postfix, againPost)
	assert.Equal(t, size, g.Len(), "memoized split allocates nothing")
	assert.Equal(t, 1, seen.memoized)

	data, err := g.Vertex(abcd.ID)
	require.NoError(t, err)
	assert.Contains(t, data.Patterns, hypergraph.Pattern{prefix, postfix})
	require.NoError(t, g.Validate())
}

func TestSplitAt_EveryOffset(t *testing.T) {
	t.Parallel()

	inputs := []string{"abcdefgh", "Hello world!", "mississippi", "abab"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			g := hypergraph.New[rune]()
			root := ingest(t, g, input)

			for k := 1; k < root.Width; k++ {
				prefix, postfix, err := g.SplitAt(root.ID, k)
				require.NoError(t, err, "offset %d", k)
				assert.Equal(t, k, prefix.Width)
				assert.Equal(t, input, text(t, g, prefix.ID)+text(t, g, postfix.ID), "offset %d", k)

				p2, s2, err := g.SplitAt(root.ID, k)
				require.NoError(t, err)
				assert.Equal(t, prefix, p2)
				assert.Equal(t, postfix, s2)
			}
			require.NoError(t, g.Validate())
			assert.Equal(t, input, text(t, g, root.ID))
		})
	}
}

func TestSplitAt_OutOfRange(t *testing.T) {
	t.Parallel()

	g := hypergraph.New[rune]()
	abcd := ingest(t, g, "abcd")
	a := leaf(t, g, 'a')

	tests := []struct {
		name   string
		id     hypergraph.VertexID
		offset int
	}{
		{name: "zero", id: abcd.ID, offset: 0},
		{name: "width", id: abcd.ID, offset: 4},
		{name: "negative", id: abcd.ID, offset: -1},
		{name: "leaf", id: a.ID, offset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := g.SplitAt(tt.id, tt.offset)
			require.ErrorIs(t, err, hypergraph.ErrRangeNotContained)
			assert.True(t, hypergraph.IsInvariantViolation(err))

			var invErr *hypergraph.InvariantError
			require.True(t, errors.As(err, &invErr))
			assert.Equal(t, tt.id, invErr.Vertex)
		})
	}

	_, _, err := g.SplitAt(999, 1)
	require.ErrorIs(t, err, hypergraph.ErrUnknownVertex)
}

func TestSplitRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end int
		kind       hypergraph.RangeKind
		left       string
		target     string
		right      string
	}{
		{name: "full", start: 0, end: 4, kind: hypergraph.RangeFull, target: "abcd"},
		{name: "prefix", start: 0, end: 2, kind: hypergraph.RangeSingle, target: "ab", right: "cd"},
		{name: "postfix", start: 3, end: 4, kind: hypergraph.RangeSingle, left: "abc", target: "d"},
		{name: "interior", start: 1, end: 3, kind: hypergraph.RangeDouble, left: "a", target: "bc", right: "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := hypergraph.New[rune]()
			abcd := ingest(t, g, "abcd")

			got, err := g.SplitRange(abcd.ID, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.target, text(t, g, got.Target.ID))
			assert.Equal(t, tt.end-tt.start, got.Target.Width)

			if tt.left != "" {
				assert.Equal(t, tt.left, text(t, g, got.Left.ID))
			}
			if tt.right != "" {
				assert.Equal(t, tt.right, text(t, g, got.Right.ID))
			}

			if tt.kind == hypergraph.RangeDouble {
				data, err := g.Vertex(abcd.ID)
				require.NoError(t, err)
				assert.Contains(t, data.Patterns, hypergraph.Pattern{got.Left, got.Target, got.Right})
			}
			require.NoError(t, g.Validate())
		})
	}
}

func TestSplitRange_NotContained(t *testing.T) {
	t.Parallel()

	g := hypergraph.New[rune]()
	abcd := ingest(t, g, "abcd")

	for _, r := range [][2]int{{-1, 2}, {0, 5}, {2, 2}, {3, 1}} {
		_, err := g.SplitRange(abcd.ID, r[0], r[1])
		require.ErrorIs(t, err, hypergraph.ErrRangeNotContained, "range %v", r)
		assert.True(t, hypergraph.IsInvariantViolation(err))
	}
}
