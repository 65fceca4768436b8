package hypergraph

import (
	"errors"
	"fmt"
	"math"
)

// ReaderState is the lifecycle state of a Reader.
type ReaderState int

const (
	// ReaderEmpty means no token has been consumed yet.
	ReaderEmpty ReaderState = iota

	// ReaderMatching means a match is running.
	ReaderMatching

	// ReaderResolved is terminal: the sequence was fully read.
	ReaderResolved
)

// String implements fmt.Stringer.
func (s ReaderState) String() string {
	switch s {
	case ReaderEmpty:
		return "empty"
	case ReaderMatching:
		return "matching"
	case ReaderResolved:
		return "resolved"
	default:
		return fmt.Sprintf("ReaderState(%d)", int(s))
	}
}

// Reader ingests a sequence one token at a time.
//
// Tokens accumulate while the tokens read since the last block boundary are
// still contained in some known vertex. When a token breaks containment the
// accumulated block is materialized and joined onto the anchor, and the new
// token starts the next block. The resulting vertex is the one Ingest returns
// for the same sequence.
//
// A Reader is not safe for concurrent use. Each call to Feed or Finish holds
// the graph's writer lock for its duration only.
type Reader[T comparable] struct {
	graph   *Graph[T]
	state   ReaderState
	anchor  Child
	started bool
	pending []VertexID
	result  Child
}

// NewReader returns a Reader in the Empty state.
func (g *Graph[T]) NewReader() *Reader[T] {
	return &Reader[T]{graph: g}
}

// State returns the current lifecycle state.
func (r *Reader[T]) State() ReaderState {
	return r.state
}

// Anchor returns the vertex confirmed for the tokens consumed before the
// current block, and false when no block has been completed yet.
func (r *Reader[T]) Anchor() (Child, bool) {
	return r.anchor, r.started
}

// Feed consumes one token.
func (r *Reader[T]) Feed(token T) error {
	if r.state == ReaderResolved {
		return ErrReaderResolved
	}

	g := r.graph
	g.mu.Lock()
	defer g.mu.Unlock()

	r.state = ReaderMatching

	// An unseen token cannot continue any known vertex, so the pending block
	// is complete before its leaf exists.
	id, known := g.leaves[token]
	if !known {
		if len(r.pending) > 0 {
			if err := r.flush(r.pending); err != nil {
				return err
			}
		}
		leaf, _ := g.allocLeaf(token)
		r.pending = append(r.pending[:0], leaf.ID)
		return nil
	}

	r.pending = append(r.pending, id)
	if len(r.pending) == 1 || g.longestPrefix(r.pending).Width() == len(r.pending) {
		return nil
	}

	last := len(r.pending) - 1
	if err := r.flush(r.pending[:last]); err != nil {
		return err
	}
	r.pending = append(r.pending[:0], id)
	return nil
}

// Finish ends the sequence and returns the vertex that exactly represents it.
// Finishing an Empty reader fails with ErrEmptyInput; finishing twice returns
// the same result.
func (r *Reader[T]) Finish() (Child, error) {
	switch r.state {
	case ReaderEmpty:
		return Child{}, ErrEmptyInput
	case ReaderResolved:
		return r.result, nil
	}

	g := r.graph
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := r.flush(r.pending); err != nil {
		return Child{}, err
	}
	r.pending = nil
	r.state = ReaderResolved
	r.result = r.anchor
	return r.result, nil
}

// Result returns the resolved vertex, and false until Finish succeeds.
func (r *Reader[T]) Result() (Child, bool) {
	return r.result, r.state == ReaderResolved
}

// flush materializes block and joins it onto the anchor. The writer lock
// must be held.
func (r *Reader[T]) flush(block []VertexID) error {
	child, err := r.graph.block(block)
	if err != nil {
		return err
	}
	if !r.started {
		r.anchor, r.started = child, true
		return nil
	}
	r.anchor, err = r.graph.extend(r.anchor, child)
	return err
}

// noVertex marks a token that has no leaf yet. It never equals a real id.
const noVertex = VertexID(math.MaxUint32)

// readSequence ingests tokens block by block. The writer lock must be held.
//
// Tokens without a leaf get one only when reading reaches them, so vertices
// are allocated in the same order a Reader fed the same tokens would use.
func (g *Graph[T]) readSequence(tokens []T) (Child, error) {
	if len(tokens) == 0 {
		return Child{}, ErrEmptyInput
	}

	leaves := make([]VertexID, len(tokens))
	unseen := make(map[T][]int)
	for i, token := range tokens {
		id, ok := g.leaves[token]
		if !ok {
			id = noVertex
			unseen[token] = append(unseen[token], i)
		}
		leaves[i] = id
	}

	var (
		anchor  Child
		started bool
	)
	for pos := 0; pos < len(leaves); {
		if leaves[pos] == noVertex {
			leaf, _ := g.allocLeaf(tokens[pos])
			for _, i := range unseen[tokens[pos]] {
				leaves[i] = leaf.ID
			}
			delete(unseen, tokens[pos])
		}

		block, err := g.materialize(g.longestPrefix(leaves[pos:]))
		if err != nil {
			return Child{}, err
		}
		pos += block.Width

		if !started {
			anchor, started = block, true
			continue
		}
		if anchor, err = g.extend(anchor, block); err != nil {
			return Child{}, err
		}
	}
	return anchor, nil
}

// block returns the vertex spanning leaves, which must all be contained in
// one known vertex.
func (g *Graph[T]) block(leaves []VertexID) (Child, error) {
	match := g.longestPrefix(leaves)
	if match.Width() != len(leaves) {
		return Child{}, invariant("read", match.Vertex.ID,
			fmt.Errorf("%w: block of %d tokens matched only %d", ErrRangeNotContained, len(leaves), match.Width()))
	}
	return g.materialize(match)
}

// materialize returns the vertex spanning exactly the matched range,
// splitting the match vertex when it overshoots.
func (g *Graph[T]) materialize(match Match) (Child, error) {
	if match.Kind == MatchComplete {
		return match.Vertex, nil
	}
	split, err := g.splitRange(match.Vertex.ID, match.Start, match.End)
	if err != nil {
		return Child{}, err
	}
	return split.Target, nil
}

// extend returns the vertex spanning anchor followed by block: an existing
// vertex when one matches exactly, a fragment split out of a wider match, or
// a newly allocated composite.
func (g *Graph[T]) extend(anchor, block Child) (Child, error) {
	pattern := Pattern{anchor, block}

	match, err := g.findPattern(Forward, pattern)
	switch {
	case errors.Is(err, ErrNotFound):
		return g.intern(pattern), nil
	case err != nil:
		return Child{}, err
	}
	return g.materialize(match)
}
