package hypergraph

import (
	"fmt"
)

// RangeKind classifies a range split.
type RangeKind int

const (
	// RangeFull means the range is the whole vertex; nothing was split.
	RangeFull RangeKind = iota

	// RangeSingle means the range touched one end of the vertex and a single
	// split produced it.
	RangeSingle

	// RangeDouble means the range was strictly interior and two splits
	// produced left, middle and right fragments.
	RangeDouble
)

// String implements fmt.Stringer.
func (k RangeKind) String() string {
	switch k {
	case RangeFull:
		return "full"
	case RangeSingle:
		return "single"
	case RangeDouble:
		return "double"
	default:
		return fmt.Sprintf("RangeKind(%d)", int(k))
	}
}

// RangeSplit is the result of SplitRange.
//
// Target always spans exactly the requested range. Left and Right are the
// fragments on either side of it and are zero when the range touches that
// end of the vertex.
type RangeSplit struct {
	Kind   RangeKind
	Target Child
	Left   Child
	Right  Child
}

// SplitAt splits the coverage of vertex id at offset, returning vertices that
// span the tokens before and after it.
//
// Existing patterns are never rewritten. Instead the pattern [prefix, postfix]
// is added to id, and to every descendant that had to be split on the way
// down because no pattern had a child boundary at the offset. The result is
// memoized per (vertex, offset); repeated calls return the same pair.
//
// An offset outside (0, width) fails with an *InvariantError wrapping
// ErrRangeNotContained.
func (g *Graph[T]) SplitAt(id VertexID, offset int) (Child, Child, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pair, err := g.splitAt(id, offset)
	if err != nil {
		return Child{}, Child{}, err
	}
	return pair.prefix, pair.postfix, nil
}

// SplitRange materializes the vertex spanning [start, end) of vertex id.
// A strictly interior range also records the pattern [left, middle, right]
// on id.
func (g *Graph[T]) SplitRange(id VertexID, start, end int) (RangeSplit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.splitRange(id, start, end)
}

// splitFrame is a pending rewrite while descending to the split boundary:
// child index of pattern straddles offset of vertex id.
type splitFrame struct {
	id      VertexID
	offset  int
	pattern Pattern
	index   int
}

func (g *Graph[T]) splitAt(id VertexID, offset int) (splitPair, error) {
	if err := g.checkID(id); err != nil {
		return splitPair{}, err
	}
	if width := g.vertices[id].width; offset <= 0 || offset >= width {
		return splitPair{}, invariant("split", id,
			fmt.Errorf("%w: offset %d of width %d", ErrRangeNotContained, offset, width))
	}

	var (
		frames []splitFrame
		pair   splitPair
	)

	current, at := id, offset
	for {
		if memo, ok := g.splits[splitKey{id: current, offset: at}]; ok {
			g.observer.Split(current, at, true)
			pair = memo
			break
		}

		v := g.vertices[current]
		if v.isLeaf() {
			return splitPair{}, invariant("split", current,
				fmt.Errorf("%w: offset %d inside a leaf", ErrRangeNotContained, at))
		}

		if pattern, index, ok := v.boundary(at); ok {
			pair = splitPair{
				prefix:  g.intern(pattern[:index]),
				postfix: g.intern(pattern[index:]),
			}
			g.recordSplit(current, at, pair)
			break
		}

		pattern := v.patterns[0]
		index, start, ok := pattern.locate(at)
		if !ok {
			return splitPair{}, invariant("split", current,
				fmt.Errorf("%w: no child straddles offset %d", ErrRangeNotContained, at))
		}
		frames = append(frames, splitFrame{id: current, offset: at, pattern: pattern, index: index})
		current, at = pattern[index].ID, at-start
	}

	// Unwind: each straddled child is now split, so its parent splits into
	// the children before it plus the child's prefix, and the child's postfix
	// plus the children after it.
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]

		left := make(Pattern, 0, f.index+1)
		left = append(left, f.pattern[:f.index]...)
		left = append(left, pair.prefix)

		right := make(Pattern, 0, len(f.pattern)-f.index)
		right = append(right, pair.postfix)
		right = append(right, f.pattern[f.index+1:]...)

		pair = splitPair{prefix: g.intern(left), postfix: g.intern(right)}
		g.recordSplit(f.id, f.offset, pair)
	}
	return pair, nil
}

func (g *Graph[T]) recordSplit(id VertexID, offset int, pair splitPair) {
	g.splits[splitKey{id: id, offset: offset}] = pair
	g.addPattern(id, Pattern{pair.prefix, pair.postfix})
	g.observer.Split(id, offset, false)
}

func (g *Graph[T]) splitRange(id VertexID, start, end int) (RangeSplit, error) {
	if err := g.checkID(id); err != nil {
		return RangeSplit{}, err
	}
	width := g.vertices[id].width
	if start < 0 || end > width || start >= end {
		return RangeSplit{}, invariant("split range", id,
			fmt.Errorf("%w: [%d, %d) of width %d", ErrRangeNotContained, start, end, width))
	}

	switch {
	case start == 0 && end == width:
		return RangeSplit{Kind: RangeFull, Target: g.child(id)}, nil

	case start == 0:
		pair, err := g.splitAt(id, end)
		if err != nil {
			return RangeSplit{}, err
		}
		return RangeSplit{Kind: RangeSingle, Target: pair.prefix, Right: pair.postfix}, nil

	case end == width:
		pair, err := g.splitAt(id, start)
		if err != nil {
			return RangeSplit{}, err
		}
		return RangeSplit{Kind: RangeSingle, Left: pair.prefix, Target: pair.postfix}, nil

	default:
		outer, err := g.splitAt(id, start)
		if err != nil {
			return RangeSplit{}, err
		}
		inner, err := g.splitAt(outer.postfix.ID, end-start)
		if err != nil {
			return RangeSplit{}, err
		}
		g.addPattern(id, Pattern{outer.prefix, inner.prefix, inner.postfix})
		return RangeSplit{
			Kind:   RangeDouble,
			Left:   outer.prefix,
			Target: inner.prefix,
			Right:  inner.postfix,
		}, nil
	}
}

// boundary finds a pattern with a child boundary at offset and returns the
// index of the first child after it.
func (v *vertex) boundary(offset int) (Pattern, int, bool) {
	for _, p := range v.patterns {
		pos := 0
		for i, child := range p {
			if pos == offset && i > 0 {
				return p, i, true
			}
			pos += child.Width
			if pos > offset {
				break
			}
		}
	}
	return nil, 0, false
}

// locate returns the index and start offset of the child that strictly
// straddles offset.
func (p Pattern) locate(offset int) (int, int, bool) {
	pos := 0
	for i, child := range p {
		if pos < offset && offset < pos+child.Width {
			return i, pos, true
		}
		pos += child.Width
	}
	return 0, 0, false
}
