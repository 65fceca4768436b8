package hypergraph

// Content hashing uses a polynomial hash over the leaf sequence so that a
// composite's hash can be computed from its children's hashes alone:
//
//	H(xy) = H(x)*B^|y| + H(y)
//
// Hash equality is only a candidate filter; content is verified leaf by leaf.
const hashBase uint64 = 0x100000001b3

// leafHash scrambles a leaf id (splitmix64 finalizer).
func leafHash(id VertexID) uint64 {
	z := uint64(id) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// hashPow returns hashBase^n modulo 2^64.
func hashPow(n int) uint64 {
	result, base := uint64(1), hashBase
	for n > 0 {
		if n&1 == 1 {
			result *= base
		}
		base *= base
		n >>= 1
	}
	return result
}

// patternHash combines the children's hashes.
func (g *Graph[T]) patternHash(p Pattern) uint64 {
	var h uint64
	for _, child := range p {
		h = h*hashPow(child.Width) + g.vertices[child.ID].hash
	}
	return h
}

// span is a half-open range [from, to) inside vertex id.
type span struct {
	id       VertexID
	from, to int
}

// leafCursor yields the leaves of a vertex range left to right. It descends
// through each vertex's first pattern using an explicit stack.
type leafCursor struct {
	vertices []*vertex
	stack    []span
}

func (g *Graph[T]) cursor(id VertexID, from, to int) *leafCursor {
	return &leafCursor{
		vertices: g.vertices,
		stack:    []span{{id: id, from: from, to: to}},
	}
}

func (c *leafCursor) next() (VertexID, bool) {
	for len(c.stack) > 0 {
		last := len(c.stack) - 1
		top := c.stack[last]
		c.stack = c.stack[:last]

		v := c.vertices[top.id]
		if v.isLeaf() {
			return top.id, true
		}

		// Push overlapping children right to left so the leftmost pops first.
		p := v.patterns[0]
		end := v.width
		for i := len(p) - 1; i >= 0; i-- {
			start := end - p[i].Width
			if start < top.to && end > top.from {
				c.stack = append(c.stack, span{
					id:   p[i].ID,
					from: max(top.from-start, 0),
					to:   min(top.to-start, p[i].Width),
				})
			}
			end = start
		}
	}
	return 0, false
}

// appendLeaves appends the leaves of id in [from, to) to dst.
func (g *Graph[T]) appendLeaves(dst []VertexID, id VertexID, from, to int) []VertexID {
	c := g.cursor(id, from, to)
	for {
		leaf, ok := c.next()
		if !ok {
			return dst
		}
		dst = append(dst, leaf)
	}
}

// patternLeaves flattens a pattern to its leaf sequence.
func (g *Graph[T]) patternLeaves(p Pattern) []VertexID {
	out := make([]VertexID, 0, p.Width())
	for _, child := range p {
		out = g.appendLeaves(out, child.ID, 0, child.Width)
	}
	return out
}

// agreement counts how many leaves of target match id's content starting at
// offset from. Counting stops at the first mismatch or at the end of either
// side.
func (g *Graph[T]) agreement(id VertexID, from int, target []VertexID) int {
	to := min(g.vertices[id].width, from+len(target))
	if to <= from {
		return 0
	}
	c := g.cursor(id, from, to)
	n := 0
	for n < len(target) {
		leaf, ok := c.next()
		if !ok || leaf != target[n] {
			break
		}
		n++
	}
	return n
}

// sameContent reports whether vertex id spans exactly the leaves of p.
func (g *Graph[T]) sameContent(id VertexID, p Pattern) bool {
	v := g.vertices[id]
	if v.width != p.Width() {
		return false
	}
	if _, ok := v.hasPattern(p); ok {
		return true
	}
	leaves := g.patternLeaves(p)
	return g.agreement(id, 0, leaves) == len(leaves)
}
