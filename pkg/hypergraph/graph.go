package hypergraph

import (
	"fmt"
	"sync"
)

// Observer receives notifications about graph growth. Calls happen while the
// graph's writer lock is held; implementations must be fast and must not call
// back into the graph.
type Observer interface {
	// VertexAdded is called after a leaf or composite vertex is allocated.
	VertexAdded(id VertexID, width int)

	// PatternAdded is called after a pattern is attached to a vertex,
	// including the initial pattern of a new composite.
	PatternAdded(id VertexID, pattern PatternID)

	// Split is called for every split request. Memoized is true when the
	// boundary had already been materialized.
	Split(id VertexID, offset int, memoized bool)
}

// Option configures a Graph.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver attaches an Observer to the graph.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// splitKey identifies a split boundary.
type splitKey struct {
	id     VertexID
	offset int
}

// splitPair is the memoized result of a split.
type splitPair struct {
	prefix  Child
	postfix Child
}

// contentKey buckets vertices by content hash and width.
type contentKey struct {
	hash  uint64
	width int
}

// Graph is the sequence hypergraph index over tokens of type T.
type Graph[T comparable] struct {
	mu sync.RWMutex

	// vertices is the arena; VertexID indexes it.
	vertices []*vertex

	// leaves maps each token to its leaf; tokens is the reverse map.
	leaves map[T]VertexID
	tokens map[VertexID]T

	// content maps content hashes to the vertices spanning that content.
	content map[contentKey][]VertexID

	// splits memoizes materialized split boundaries.
	splits map[splitKey]splitPair

	observer Observer
}

// New creates an empty Graph.
func New[T comparable](opts ...Option) *Graph[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}

	return &Graph[T]{
		leaves:   make(map[T]VertexID),
		tokens:   make(map[VertexID]T),
		content:  make(map[contentKey][]VertexID),
		splits:   make(map[splitKey]splitPair),
		observer: o.observer,
	}
}

// Len returns the number of vertices in the graph.
func (g *Graph[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// Stats captures aggregate information about the graph.
type Stats struct {
	// Vertices is the total number of vertices.
	Vertices int

	// Leaves is the number of single-token vertices.
	Leaves int

	// Composites is the number of vertices with at least one pattern.
	Composites int

	// Patterns is the total number of patterns across all vertices.
	Patterns int

	// Occurrences is the total number of parent backlinks.
	Occurrences int

	// Splits is the number of memoized split boundaries.
	Splits int

	// MaxWidth is the width of the widest vertex.
	MaxWidth int
}

// Stats returns aggregate statistics.
func (g *Graph[T]) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Stats{
		Vertices: len(g.vertices),
		Splits:   len(g.splits),
	}
	for _, v := range g.vertices {
		if v.isLeaf() {
			stats.Leaves++
		} else {
			stats.Composites++
		}
		stats.Patterns += len(v.patterns)
		stats.Occurrences += len(v.parents)
		stats.MaxWidth = max(stats.MaxWidth, v.width)
	}
	return stats
}

// Vertex returns a copy of the vertex data for id.
func (g *Graph[T]) Vertex(id VertexID) (VertexData, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertexData(id)
}

// LeafOf returns the leaf for token without allocating.
func (g *Graph[T]) LeafOf(token T) (Child, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.leaves[token]
	if !ok {
		return Child{}, false
	}
	return Child{ID: id, Width: 1}, true
}

// Token returns the token of a leaf vertex.
func (g *Graph[T]) Token(id VertexID) (T, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	token, ok := g.tokens[id]
	return token, ok
}

// Tokens flattens a vertex down to the token sequence it spans.
func (g *Graph[T]) Tokens(id VertexID) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.checkID(id); err != nil {
		return nil, err
	}
	return g.tokensOf(id), nil
}

// Parents returns the parent occurrences of a vertex.
func (g *Graph[T]) Parents(id VertexID) ([]Occurrence, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.checkID(id); err != nil {
		return nil, err
	}
	out := make([]Occurrence, len(g.vertices[id].parents))
	copy(out, g.vertices[id].parents)
	return out, nil
}

func (g *Graph[T]) checkID(id VertexID) error {
	if int(id) >= len(g.vertices) {
		return fmt.Errorf("%w: %s", ErrUnknownVertex, id)
	}
	return nil
}

func (g *Graph[T]) vertexData(id VertexID) (VertexData, error) {
	if err := g.checkID(id); err != nil {
		return VertexData{}, err
	}
	v := g.vertices[id]

	data := VertexData{
		ID:       id,
		Width:    v.width,
		Patterns: make([]Pattern, len(v.patterns)),
		Parents:  make([]Occurrence, len(v.parents)),
	}
	for i, p := range v.patterns {
		data.Patterns[i] = p.clone()
	}
	copy(data.Parents, v.parents)
	return data, nil
}

func (g *Graph[T]) info(id VertexID) VertexInfo[T] {
	data, _ := g.vertexData(id)
	return VertexInfo[T]{VertexData: data, Tokens: g.tokensOf(id)}
}

func (g *Graph[T]) tokensOf(id VertexID) []T {
	leaves := g.appendLeaves(nil, id, 0, g.vertices[id].width)
	out := make([]T, len(leaves))
	for i, leaf := range leaves {
		out[i] = g.tokens[leaf]
	}
	return out
}

func (g *Graph[T]) child(id VertexID) Child {
	return Child{ID: id, Width: g.vertices[id].width}
}

type nopObserver struct{}

func (nopObserver) VertexAdded(VertexID, int) {}

func (nopObserver) PatternAdded(VertexID, PatternID) {}

func (nopObserver) Split(VertexID, int, bool) {}

// Observers fans notifications out to several observers.
func Observers(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) VertexAdded(id VertexID, width int) {
	for _, o := range m {
		o.VertexAdded(id, width)
	}
}

func (m multiObserver) PatternAdded(id VertexID, pattern PatternID) {
	for _, o := range m {
		o.PatternAdded(id, pattern)
	}
}

func (m multiObserver) Split(id VertexID, offset int, memoized bool) {
	for _, o := range m {
		o.Split(id, offset, memoized)
	}
}
