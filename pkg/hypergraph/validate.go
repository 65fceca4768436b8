package hypergraph

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Validate checks every structural invariant of the graph and returns all
// violations joined, or nil.
//
// Checked per vertex:
//   - leaves carry a token and width 1, composites carry none
//   - every pattern has at least two children with accurate cached widths
//     summing to the vertex width
//   - every pattern flattens to the same token sequence
//   - parent occurrences are exactly the transpose of the patterns
//
// Graph-wide, no two vertices span the same tokens and every memoized split
// covers its vertex.
func (g *Graph[T]) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.validate()
}

func (g *Graph[T]) validate() error {
	var errs []error
	fail := func(op string, id VertexID, format string, args ...any) {
		errs = append(errs, invariant(op, id, fmt.Errorf(format, args...)))
	}

	expected := make(map[Occurrence]struct{})
	for i, v := range g.vertices {
		id := VertexID(i)
		_, hasToken := g.tokens[id]

		if v.isLeaf() {
			if v.width != 1 || !hasToken {
				fail("validate", id, "%w: leaf of width %d without token", ErrWidthMismatch, v.width)
			}
			continue
		}
		if hasToken {
			fail("validate", id, "%w: composite carries a token", ErrPatternMismatch)
		}

		var reference []VertexID
		for pid, p := range v.patterns {
			if len(p) < 2 {
				fail("validate", id, "%w: pattern %d", ErrSingleChild, pid)
				continue
			}
			valid := true
			for index, child := range p {
				if int(child.ID) >= len(g.vertices) {
					fail("validate", id, "%w: pattern %d references %s", ErrUnknownVertex, pid, child.ID)
					valid = false
					continue
				}
				if w := g.vertices[child.ID].width; w != child.Width {
					fail("validate", id, "%w: pattern %d child %s cached %d, actual %d", ErrWidthMismatch, pid, child.ID, child.Width, w)
					valid = false
				}
				expected[Occurrence{Parent: id, Pattern: PatternID(pid), Index: index}] = struct{}{}
			}
			if w := p.Width(); w != v.width {
				fail("validate", id, "%w: pattern %d spans %d, vertex %d", ErrWidthMismatch, pid, w, v.width)
				valid = false
			}
			if !valid {
				continue
			}

			leaves := g.patternLeaves(p)
			if reference == nil {
				reference = leaves
			} else if !slices.Equal(reference, leaves) {
				fail("validate", id, "%w: pattern %d", ErrPatternMismatch, pid)
			}
		}
	}

	seen := 0
	for i, v := range g.vertices {
		id := VertexID(i)
		for _, occ := range v.parents {
			if _, ok := expected[occ]; !ok || !g.occurrenceOf(occ, id) {
				fail("validate", id, "%w: stale backlink %s/%d/%d", ErrPatternMismatch, occ.Parent, occ.Pattern, occ.Index)
				continue
			}
			seen++
		}
	}
	if seen != len(expected) {
		errs = append(errs, fmt.Errorf("%w: %d pattern positions, %d backlinks", ErrPatternMismatch, len(expected), seen))
	}

	errs = append(errs, g.validateContent()...)

	for key, pair := range g.splits {
		if int(key.id) >= len(g.vertices) {
			fail("validate", key.id, "%w: split memo", ErrUnknownVertex)
			continue
		}
		if pair.prefix.Width != key.offset || pair.prefix.Width+pair.postfix.Width != g.vertices[key.id].width {
			fail("validate", key.id, "%w: split at %d", ErrRangeNotContained, key.offset)
			continue
		}
		for _, part := range []Child{pair.prefix, pair.postfix} {
			if int(part.ID) >= len(g.vertices) || g.vertices[part.ID].width != part.Width {
				fail("validate", key.id, "%w: split at %d references %s", ErrUnknownVertex, key.offset, part)
			}
		}
	}

	return errors.Join(errs...)
}

func (g *Graph[T]) occurrenceOf(occ Occurrence, id VertexID) bool {
	if int(occ.Parent) >= len(g.vertices) {
		return false
	}
	patterns := g.vertices[occ.Parent].patterns
	if int(occ.Pattern) >= len(patterns) {
		return false
	}
	p := patterns[occ.Pattern]
	return occ.Index < len(p) && p[occ.Index].ID == id
}

// validateContent reports vertices sharing content and stale content hashes.
func (g *Graph[T]) validateContent() []error {
	var errs []error
	buckets := make(map[contentKey][]VertexID)
	for i, v := range g.vertices {
		if v.isLeaf() {
			continue
		}
		id := VertexID(i)
		if h := g.patternHash(v.patterns[0]); h != v.hash {
			errs = append(errs, invariant("validate", id, fmt.Errorf("%w: stale content hash", ErrPatternMismatch)))
		}
		key := contentKey{hash: v.hash, width: v.width}
		for _, other := range buckets[key] {
			if g.sameContent(other, v.patterns[0]) {
				errs = append(errs, invariant("validate", id, fmt.Errorf("%w: same content as %s", ErrPatternMismatch, other)))
			}
		}
		buckets[key] = append(buckets[key], id)
	}
	return errs
}

// Dump is a plain copy of a graph used for persistence. Vertex ids are the
// indexes into Vertices.
type Dump[T comparable] struct {
	Leaves   []LeafRecord[T]
	Vertices []VertexRecord
	Splits   []SplitRecord
}

// LeafRecord binds a leaf vertex to its token.
type LeafRecord[T comparable] struct {
	ID    VertexID
	Token T
}

// VertexRecord holds one vertex. Leaves have no patterns.
type VertexRecord struct {
	Width    int
	Patterns []Pattern
}

// SplitRecord is one memoized split boundary.
type SplitRecord struct {
	Vertex  VertexID
	Offset  int
	Prefix  Child
	Postfix Child
}

// Export returns a Dump of the graph. Leaves and splits are sorted by vertex
// id so equal graphs export identically.
func (g *Graph[T]) Export() Dump[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dump := Dump[T]{
		Leaves:   make([]LeafRecord[T], 0, len(g.leaves)),
		Vertices: make([]VertexRecord, len(g.vertices)),
		Splits:   make([]SplitRecord, 0, len(g.splits)),
	}
	for token, id := range g.leaves {
		dump.Leaves = append(dump.Leaves, LeafRecord[T]{ID: id, Token: token})
	}
	sort.Slice(dump.Leaves, func(i, j int) bool { return dump.Leaves[i].ID < dump.Leaves[j].ID })

	for i, v := range g.vertices {
		record := VertexRecord{Width: v.width}
		for _, p := range v.patterns {
			record.Patterns = append(record.Patterns, p.clone())
		}
		dump.Vertices[i] = record
	}

	for key, pair := range g.splits {
		dump.Splits = append(dump.Splits, SplitRecord{
			Vertex:  key.id,
			Offset:  key.offset,
			Prefix:  pair.prefix,
			Postfix: pair.postfix,
		})
	}
	sort.Slice(dump.Splits, func(i, j int) bool {
		a, b := dump.Splits[i], dump.Splits[j]
		if a.Vertex != b.Vertex {
			return a.Vertex < b.Vertex
		}
		return a.Offset < b.Offset
	})
	return dump
}

// Restore rebuilds a graph from a Dump, preserving vertex ids, and validates
// the result. The observer, if any, is attached after loading and sees no
// notifications for restored structure.
func Restore[T comparable](dump Dump[T], opts ...Option) (*Graph[T], error) {
	g := New[T](opts...)
	observer := g.observer
	g.observer = nopObserver{}

	g.vertices = make([]*vertex, len(dump.Vertices))
	for i, record := range dump.Vertices {
		if record.Width < 1 {
			return nil, fmt.Errorf("restore %s: %w: width %d", VertexID(i), ErrWidthMismatch, record.Width)
		}
		g.vertices[i] = &vertex{width: record.Width}
	}

	// Patterns must be well formed before anything is flattened: with every
	// child strictly narrower than its parent the structure cannot cycle.
	for i, record := range dump.Vertices {
		id := VertexID(i)
		for _, p := range record.Patterns {
			if err := g.checkPattern(p); err != nil {
				return nil, fmt.Errorf("restore %s: %w", id, err)
			}
			if w := p.Width(); w != record.Width {
				return nil, fmt.Errorf("restore %s: %w: pattern spans %d, vertex %d", id, ErrWidthMismatch, w, record.Width)
			}
		}
	}

	for _, leaf := range dump.Leaves {
		if err := g.checkID(leaf.ID); err != nil {
			return nil, fmt.Errorf("restore leaf: %w", err)
		}
		if _, dup := g.leaves[leaf.Token]; dup {
			return nil, fmt.Errorf("restore leaf %s: %w: duplicate token", leaf.ID, ErrPatternMismatch)
		}
		g.leaves[leaf.Token] = leaf.ID
		g.tokens[leaf.ID] = leaf.Token
		g.vertices[leaf.ID].hash = leafHash(leaf.ID)
	}

	for i, record := range dump.Vertices {
		id := VertexID(i)
		for _, p := range record.Patterns {
			g.addPattern(id, p)
		}
	}

	// Composite hashes depend on the children's, so fill them narrowest first.
	order := make([]VertexID, 0, len(g.vertices))
	for i, v := range g.vertices {
		if !v.isLeaf() {
			order = append(order, VertexID(i))
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return g.vertices[order[i]].width < g.vertices[order[j]].width
	})
	for _, id := range order {
		v := g.vertices[id]
		v.hash = g.patternHash(v.patterns[0])
		key := contentKey{hash: v.hash, width: v.width}
		g.content[key] = append(g.content[key], id)
	}

	for _, split := range dump.Splits {
		g.splits[splitKey{id: split.Vertex, offset: split.Offset}] = splitPair{
			prefix:  split.Prefix,
			postfix: split.Postfix,
		}
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	g.observer = observer
	return g, nil
}
