package hypergraph

import (
	"fmt"
)

// AllocLeaf returns the leaf for token, allocating it on first sight.
// Tokens map one to one to leaves.
func (g *Graph[T]) AllocLeaf(token T) Child {
	g.mu.Lock()
	defer g.mu.Unlock()

	leaf, _ := g.allocLeaf(token)
	return leaf
}

// AllocComposite returns the composite vertex spanning pattern's content.
//
// A new vertex with pattern as its only decomposition is allocated when the
// content has no vertex yet. Otherwise pattern is attached to the existing
// vertex as an alternative decomposition and that vertex is returned, so no
// two vertices ever span the same tokens.
func (g *Graph[T]) AllocComposite(pattern Pattern) (Child, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPattern(pattern); err != nil {
		return Child{}, err
	}
	return g.intern(pattern), nil
}

// AddPattern attaches an alternative decomposition to an existing vertex.
// The pattern must span exactly the vertex's tokens. Adding a pattern that is
// already present returns its existing id.
func (g *Graph[T]) AddPattern(id VertexID, pattern Pattern) (PatternID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkID(id); err != nil {
		return 0, err
	}
	if err := g.checkPattern(pattern); err != nil {
		return 0, err
	}

	v := g.vertices[id]
	if v.isLeaf() {
		return 0, fmt.Errorf("%w: leaf %s cannot take a pattern", ErrWidthMismatch, id)
	}
	if width := pattern.Width(); width != v.width {
		return 0, fmt.Errorf("%w: pattern width %d, vertex %s width %d", ErrWidthMismatch, width, id, v.width)
	}
	if !g.sameContent(id, pattern) {
		return 0, fmt.Errorf("%w: %s does not span %s", ErrPatternMismatch, pattern, id)
	}

	pid, _ := g.addPattern(id, pattern)
	return pid, nil
}

// checkPattern validates a caller supplied pattern.
func (g *Graph[T]) checkPattern(p Pattern) error {
	if len(p) < 2 {
		return ErrSingleChild
	}
	for _, child := range p {
		if err := g.checkID(child.ID); err != nil {
			return err
		}
		if w := g.vertices[child.ID].width; w != child.Width {
			return fmt.Errorf("%w: child %s cached width %d, vertex width %d", ErrWidthMismatch, child.ID, child.Width, w)
		}
	}
	return nil
}

// allocLeaf returns the leaf for token and whether it was newly created.
func (g *Graph[T]) allocLeaf(token T) (Child, bool) {
	if id, ok := g.leaves[token]; ok {
		return Child{ID: id, Width: 1}, false
	}

	id := g.newVertex(1)
	v := g.vertices[id]
	v.hash = leafHash(id)
	g.leaves[token] = id
	g.tokens[id] = token

	g.observer.VertexAdded(id, 1)
	return Child{ID: id, Width: 1}, true
}

// intern returns the vertex spanning p's content. A single-child pattern
// resolves to the child itself. The pattern must already be validated.
func (g *Graph[T]) intern(p Pattern) Child {
	if len(p) == 1 {
		return p[0]
	}

	key := contentKey{hash: g.patternHash(p), width: p.Width()}
	for _, candidate := range g.content[key] {
		if g.sameContent(candidate, p) {
			g.addPattern(candidate, p)
			return g.child(candidate)
		}
	}

	id := g.newVertex(key.width)
	g.vertices[id].hash = key.hash
	g.content[key] = append(g.content[key], id)
	g.observer.VertexAdded(id, key.width)
	g.addPattern(id, p)
	return Child{ID: id, Width: key.width}
}

// newVertex appends an empty vertex to the arena.
func (g *Graph[T]) newVertex(width int) VertexID {
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, &vertex{width: width})
	return id
}

// addPattern attaches p to id and registers a backlink for every child.
// The pattern and its backlinks become visible together under the writer lock.
func (g *Graph[T]) addPattern(id VertexID, p Pattern) (PatternID, bool) {
	v := g.vertices[id]
	if pid, ok := v.hasPattern(p); ok {
		return pid, false
	}

	pid := PatternID(len(v.patterns))
	v.patterns = append(v.patterns, p.clone())
	for i, child := range p {
		c := g.vertices[child.ID]
		c.parents = append(c.parents, Occurrence{Parent: id, Pattern: pid, Index: i})
	}

	g.observer.PatternAdded(id, pid)
	return pid, true
}
