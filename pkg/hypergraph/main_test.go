package hypergraph_test

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ingest indexes s as runes and fails the test on error.
func ingest(t *testing.T, g *hypergraph.Graph[rune], s string) hypergraph.Child {
	t.Helper()

	child, err := g.Ingest([]rune(s))
	if err != nil {
		t.Fatalf("Ingest(%q) error = %v", s, err)
	}
	return child
}

// text flattens a vertex back to a string.
func text(t *testing.T, g *hypergraph.Graph[rune], id hypergraph.VertexID) string {
	t.Helper()

	tokens, err := g.Tokens(id)
	if err != nil {
		t.Fatalf("Tokens(%s) error = %v", id, err)
	}
	return string(tokens)
}

// leaf returns the leaf for r, failing when it is unknown.
func leaf(t *testing.T, g *hypergraph.Graph[rune], r rune) hypergraph.Child {
	t.Helper()

	child, ok := g.LeafOf(r)
	if !ok {
		t.Fatalf("LeafOf(%q) not found", r)
	}
	return child
}

// counter is an Observer that tallies notifications.
type counter struct {
	vertices int
	patterns int
	splits   int
	memoized int
}

func (c *counter) VertexAdded(hypergraph.VertexID, int) { c.vertices++ }

func (c *counter) PatternAdded(hypergraph.VertexID, hypergraph.PatternID) { c.patterns++ }

func (c *counter) Split(_ hypergraph.VertexID, _ int, memoized bool) {
	if memoized {
		c.memoized++
		return
	}
	c.splits++
}
