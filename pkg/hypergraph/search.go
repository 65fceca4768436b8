package hypergraph

import (
	"container/heap"
	"fmt"
)

// Direction orients a search.
type Direction int

const (
	// Forward anchors on the first child and extends toward the end.
	Forward Direction = iota

	// Backward anchors on the last child and extends toward the start.
	Backward
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// MatchKind describes how a matched vertex covers the searched target.
type MatchKind int

const (
	// MatchComplete means the vertex spans exactly the target.
	MatchComplete MatchKind = iota

	// MatchPrefix means the target is a prefix of the vertex.
	MatchPrefix

	// MatchPostfix means the target is a suffix of the vertex.
	MatchPostfix

	// MatchInfix means the vertex overshoots the target on both sides.
	MatchInfix
)

// String implements fmt.Stringer.
func (k MatchKind) String() string {
	switch k {
	case MatchComplete:
		return "complete"
	case MatchPrefix:
		return "prefix"
	case MatchPostfix:
		return "postfix"
	case MatchInfix:
		return "infix"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// Match is the outcome of a successful search: the target occupies
// [Start, End) of Vertex.
type Match struct {
	Kind   MatchKind
	Vertex Child
	Start  int
	End    int
}

// Width returns the number of target tokens covered by the match.
func (m Match) Width() int {
	return m.End - m.Start
}

// Exact reports whether the matched vertex spans exactly the matched range.
func (m Match) Exact() bool {
	return m.Kind == MatchComplete
}

// preferredTo orders prefix candidates: wider coverage first, then the
// narrowest vertex, then the lowest id and start.
func (m Match) preferredTo(other Match) bool {
	switch {
	case m.Width() != other.Width():
		return m.Width() > other.Width()
	case m.Vertex.Width != other.Vertex.Width:
		return m.Vertex.Width < other.Vertex.Width
	case m.Vertex.ID != other.Vertex.ID:
		return m.Vertex.ID < other.Vertex.ID
	default:
		return m.Start < other.Start
	}
}

func newMatch(vertex Child, start, end int) Match {
	return Match{Kind: classify(start, end, vertex.Width), Vertex: vertex, Start: start, End: end}
}

func classify(start, end, width int) MatchKind {
	switch {
	case start == 0 && end == width:
		return MatchComplete
	case start == 0:
		return MatchPrefix
	case end == width:
		return MatchPostfix
	default:
		return MatchInfix
	}
}

// Searcher finds vertices containing a target sequence by walking parent
// occurrences outward from an anchor child.
type Searcher[T comparable] struct {
	graph *Graph[T]
	dir   Direction
}

// Searcher returns a Searcher oriented in dir.
func (g *Graph[T]) Searcher(dir Direction) *Searcher[T] {
	return &Searcher[T]{graph: g, dir: dir}
}

// Direction returns the search orientation.
func (s *Searcher[T]) Direction() Direction {
	return s.dir
}

// FindMatchingContinuation searches for the smallest vertex containing
// anchor joined with continuation. Forward searches place continuation after
// anchor, backward searches place it before. Returns ErrNotFound when no
// parent chain of anchor continues compatibly.
func (s *Searcher[T]) FindMatchingContinuation(anchor Child, continuation Pattern) (Match, error) {
	s.graph.mu.RLock()
	defer s.graph.mu.RUnlock()

	if err := s.graph.checkPattern(append(Pattern{anchor}, continuation...)); err != nil {
		return Match{}, err
	}
	return s.graph.findContinuation(s.dir, anchor, continuation)
}

// FindPattern searches for the smallest vertex containing the concatenation
// of pattern's children. Patterns shorter than two children are rejected with
// ErrSingleChild.
func (s *Searcher[T]) FindPattern(pattern Pattern) (Match, error) {
	s.graph.mu.RLock()
	defer s.graph.mu.RUnlock()

	if err := s.graph.checkPattern(pattern); err != nil {
		return Match{}, err
	}
	return s.graph.findPattern(s.dir, pattern)
}

// FindSequence resolves tokens to leaves and searches for them.
//
// With create set, unseen tokens get new leaves (and the writer lock is
// held). Without it the search is lookup-only and an unseen token fails with
// ErrUnknownToken.
func (s *Searcher[T]) FindSequence(tokens []T, create bool) (Match, error) {
	if len(tokens) == 0 {
		return Match{}, ErrEmptyInput
	}

	g := s.graph
	if create {
		g.mu.Lock()
		defer g.mu.Unlock()
	} else {
		g.mu.RLock()
		defer g.mu.RUnlock()
	}

	pattern, err := g.resolve(tokens, create)
	if err != nil {
		return Match{}, err
	}
	if len(pattern) == 1 {
		return newMatch(pattern[0], 0, 1), nil
	}
	return g.findPattern(s.dir, pattern)
}

// LongestKnownPrefix returns the widest match for a leading run of tokens.
// The match covers Width() tokens; it is lookup-only.
func (g *Graph[T]) LongestKnownPrefix(tokens []T) (Match, error) {
	if len(tokens) == 0 {
		return Match{}, ErrEmptyInput
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	pattern, err := g.resolve(tokens, false)
	if err != nil {
		return Match{}, err
	}
	leaves := make([]VertexID, len(pattern))
	for i, leaf := range pattern {
		leaves[i] = leaf.ID
	}
	return g.longestPrefix(leaves), nil
}

// resolve maps tokens to leaves, allocating unseen ones when create is set.
func (g *Graph[T]) resolve(tokens []T, create bool) (Pattern, error) {
	pattern := make(Pattern, len(tokens))
	for i, token := range tokens {
		if create {
			pattern[i], _ = g.allocLeaf(token)
			continue
		}
		id, ok := g.leaves[token]
		if !ok {
			return nil, fmt.Errorf("%w at position %d", ErrUnknownToken, i)
		}
		pattern[i] = Child{ID: id, Width: 1}
	}
	return pattern, nil
}

func (g *Graph[T]) findPattern(dir Direction, pattern Pattern) (Match, error) {
	if dir == Backward {
		last := len(pattern) - 1
		return g.findContinuation(dir, pattern[last], pattern[:last])
	}
	return g.findContinuation(dir, pattern[0], pattern[1:])
}

func (g *Graph[T]) findContinuation(dir Direction, anchor Child, continuation Pattern) (Match, error) {
	target := make([]VertexID, 0, anchor.Width+continuation.Width())
	offset := 0
	if dir == Backward {
		target = append(target, g.patternLeaves(continuation)...)
		offset = len(target)
		target = g.appendLeaves(target, anchor.ID, 0, anchor.Width)
	} else {
		target = g.appendLeaves(target, anchor.ID, 0, anchor.Width)
		target = append(target, g.patternLeaves(continuation)...)
	}

	match, ok := g.findContaining(anchor, offset, target)
	if !ok {
		return Match{}, ErrNotFound
	}
	return match, nil
}

// searchState places the target relative to a vertex: the target begins at
// start (negative when it begins before the vertex) and [lo, hi) is the part
// of the vertex already verified against the target.
type searchState struct {
	id     VertexID
	width  int
	start  int
	lo, hi int
}

type visitKey struct {
	id    VertexID
	start int
}

// frontier is a min-heap of states ordered by vertex width, so the first
// state that covers the target is the smallest containing vertex.
type frontier []searchState

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].width != f[j].width {
		return f[i].width < f[j].width
	}
	if f[i].id != f[j].id {
		return f[i].id < f[j].id
	}
	return f[i].start < f[j].start
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(searchState)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// position returns the offset of an occurrence inside its parent.
func (g *Graph[T]) position(occ Occurrence) int {
	pattern := g.vertices[occ.Parent].patterns[occ.Pattern]
	pos := 0
	for _, child := range pattern[:occ.Index] {
		pos += child.Width
	}
	return pos
}

// lift translates a state into the coordinates of a parent occurrence.
func (g *Graph[T]) lift(st searchState, occ Occurrence) searchState {
	pos := g.position(occ)
	return searchState{
		id:    occ.Parent,
		width: g.vertices[occ.Parent].width,
		start: st.start + pos,
		lo:    st.lo + pos,
		hi:    st.hi + pos,
	}
}

// agrees checks the vertex range [from, to) against the target tokens it overlaps.
func (g *Graph[T]) agrees(st searchState, from, to int, target []VertexID) bool {
	if to <= from {
		return true
	}
	want := target[from-st.start : to-st.start]
	return g.agreement(st.id, from, want) == len(want)
}

// findContaining returns the smallest vertex reachable from anchor whose
// content contains target. anchor must span target[offset:offset+anchor.Width].
func (g *Graph[T]) findContaining(anchor Child, offset int, target []VertexID) (Match, bool) {
	total := len(target)
	start := searchState{id: anchor.ID, width: anchor.Width, start: -offset, lo: 0, hi: anchor.Width}

	front := &frontier{start}
	visited := map[visitKey]struct{}{{id: start.id, start: start.start}: {}}

	for front.Len() > 0 {
		st := heap.Pop(front).(searchState)
		if st.start >= 0 && st.start+total <= st.width {
			return newMatch(Child{ID: st.id, Width: st.width}, st.start, st.start+total), true
		}

		for _, occ := range g.vertices[st.id].parents {
			next := g.lift(st, occ)
			key := visitKey{id: next.id, start: next.start}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}

			lo := max(0, next.start)
			hi := min(next.width, next.start+total)
			if !g.agrees(next, lo, next.lo, target) || !g.agrees(next, next.hi, hi, target) {
				continue
			}
			next.lo, next.hi = lo, hi
			heap.Push(front, next)
		}
	}
	return Match{}, false
}

// longestPrefix returns the widest match for a leading run of target,
// preferring the narrowest vertex among equally wide matches. target[0] must
// be a leaf.
func (g *Graph[T]) longestPrefix(target []VertexID) Match {
	total := len(target)
	best := newMatch(Child{ID: target[0], Width: 1}, 0, 1)
	if total == 1 {
		return best
	}

	first := searchState{id: target[0], width: 1, start: 0, lo: 0, hi: 1}
	front := &frontier{first}
	visited := map[visitKey]struct{}{{id: first.id, start: 0}: {}}

	for front.Len() > 0 {
		st := heap.Pop(front).(searchState)
		// Parents are wider than st, so they cannot beat a full-width match.
		if best.Width() == total && st.width >= best.Vertex.Width {
			break
		}

		for _, occ := range g.vertices[st.id].parents {
			next := g.lift(st, occ)
			key := visitKey{id: next.id, start: next.start}
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}

			// The target begins inside next, so only the right side grows.
			hi := min(next.width, next.start+total)
			var agreed int
			if hi > next.hi {
				agreed = g.agreement(next.id, next.hi, target[next.hi-next.start:hi-next.start])
			}
			reach := next.hi + agreed
			covered := reach - next.start

			candidate := newMatch(Child{ID: next.id, Width: next.width}, next.start, reach)
			if candidate.preferredTo(best) {
				best = candidate
			}
			if reach == next.width && covered < total {
				next.hi = reach
				heap.Push(front, next)
			}
		}
	}
	return best
}
