package hypergraph

import (
	"fmt"
	"strings"
)

// VertexID identifies a vertex in a Graph. Ids are assigned sequentially and
// are never reused.
type VertexID uint32

// String implements fmt.Stringer.
func (id VertexID) String() string {
	return fmt.Sprintf("v%d", uint32(id))
}

// PatternID identifies a pattern within a single vertex. It is a local index,
// not unique across the graph.
type PatternID int

// Child references a vertex from inside a pattern. Width caches the
// referenced vertex's width and always equals it.
type Child struct {
	ID    VertexID
	Width int
}

// String implements fmt.Stringer.
func (c Child) String() string {
	return fmt.Sprintf("%s(%d)", c.ID, c.Width)
}

// Pattern is one ordered decomposition of a composite vertex.
type Pattern []Child

// Width returns the sum of the child widths.
func (p Pattern) Width() int {
	width := 0
	for _, child := range p {
		width += child.Width
	}
	return width
}

// Equal reports whether both patterns reference the same children in order.
func (p Pattern) Equal(other Pattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i].ID != other[i].ID {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, child := range p {
		parts[i] = child.ID.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// clone returns a copy that does not share the backing array.
func (p Pattern) clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// Occurrence records one place where a vertex appears as a child:
// position Index of pattern Pattern of vertex Parent.
type Occurrence struct {
	Parent  VertexID
	Pattern PatternID
	Index   int
}

// vertex is the arena record. Patterns are append-only and never rewritten,
// so Occurrence indexes stay valid for the graph's lifetime.
type vertex struct {
	width    int
	patterns []Pattern
	parents  []Occurrence
	hash     uint64
}

func (v *vertex) isLeaf() bool {
	return len(v.patterns) == 0
}

// hasPattern reports whether an identical pattern is already recorded.
func (v *vertex) hasPattern(p Pattern) (PatternID, bool) {
	for i, existing := range v.patterns {
		if existing.Equal(p) {
			return PatternID(i), true
		}
	}
	return 0, false
}

// VertexData is a read-only copy of a vertex.
type VertexData struct {
	ID       VertexID
	Width    int
	Patterns []Pattern
	Parents  []Occurrence
}

// IsLeaf reports whether the vertex stands for a single token.
func (d VertexData) IsLeaf() bool {
	return len(d.Patterns) == 0
}

// Child returns the reference used to embed this vertex in a pattern.
func (d VertexData) Child() Child {
	return Child{ID: d.ID, Width: d.Width}
}

// VertexInfo describes a vertex returned by Query, including the tokens it
// spans.
type VertexInfo[T comparable] struct {
	VertexData

	// Tokens is the flattened token sequence of the vertex.
	Tokens []T
}
