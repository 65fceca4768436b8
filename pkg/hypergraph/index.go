package hypergraph

import (
	"context"
	"errors"
)

// Ingest reads a complete sequence and returns the vertex that now exactly
// represents it. Unseen tokens get new leaves. Ingesting the same sequence
// again returns the same vertex and adds no structure.
func (g *Graph[T]) Ingest(tokens []T) (Child, error) {
	if len(tokens) == 0 {
		return Child{}, ErrEmptyInput
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.readSequence(tokens)
}

// IngestStream reads tokens from a channel until it is closed and returns the
// vertex representing the whole sequence, as Ingest would.
//
// The writer lock is held only while a single token is processed, so queries
// interleave with a slow producer. If ctx is cancelled first, ctx.Err() is
// returned; every token consumed so far has been fully applied and the graph
// stays consistent.
func (g *Graph[T]) IngestStream(ctx context.Context, tokens <-chan T) (Child, error) {
	reader := g.NewReader()
	for {
		select {
		case <-ctx.Done():
			return Child{}, ctx.Err()
		case token, ok := <-tokens:
			if !ok {
				return reader.Finish()
			}
			if err := reader.Feed(token); err != nil {
				return Child{}, err
			}
		}
	}
}

// Lookup finds the vertex that exactly represents tokens without modifying
// the graph. It fails with ErrEmptyInput, ErrUnknownToken when a token was
// never ingested, or ErrNotFound when no vertex spans the sequence.
func (g *Graph[T]) Lookup(tokens []T) (VertexInfo[T], error) {
	if len(tokens) == 0 {
		return VertexInfo[T]{}, ErrEmptyInput
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	pattern, err := g.resolve(tokens, false)
	if err != nil {
		return VertexInfo[T]{}, err
	}
	if len(pattern) == 1 {
		return g.info(pattern[0].ID), nil
	}

	// Every vertex is reachable upward from its first leaf, so a forward
	// search from the first token finds the exact vertex when one exists.
	match, err := g.findPattern(Forward, pattern)
	if err != nil {
		return VertexInfo[T]{}, err
	}
	if match.Kind != MatchComplete {
		return VertexInfo[T]{}, ErrNotFound
	}
	return g.info(match.Vertex.ID), nil
}

// Query reports whether tokens have been indexed as an exact subsequence.
// It never allocates; unknown tokens simply yield false.
func (g *Graph[T]) Query(tokens []T) (VertexInfo[T], bool) {
	info, err := g.Lookup(tokens)
	if err != nil {
		return VertexInfo[T]{}, false
	}
	return info, true
}

// IsNotFound reports whether err is an ordinary lookup miss rather than a
// failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownToken)
}
