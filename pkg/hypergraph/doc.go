// Package hypergraph implements an incremental sequence hypergraph index.
//
// A Graph ingests sequences of comparable tokens and builds, online, a graph
// in which every vertex stands for one distinct contiguous token string.
// Leaves stand for single tokens. Composite vertices carry one or more
// patterns: ordered decompositions into child vertices whose widths sum to
// the composite's width. Overlapping occurrences share vertices instead of
// duplicating them.
//
// The package is organized around four parts:
//
//   - the vertex store (an append-only arena with stable ids, parent
//     backlinks and a content index),
//   - the Searcher, which walks parent occurrences outward from an anchor to
//     find the smallest vertex containing a target,
//   - the splitter, which materializes sub-spans of existing vertices as new
//     (memoized) fragment vertices,
//   - the readers, which drive ingestion from a slice or from a channel.
//
// Vertices are never removed and never change their content. Splitting only
// adds vertices and patterns.
//
// All exported methods on Graph are safe for concurrent use. Mutating entry
// points hold the graph's writer lock for the whole logical operation; Query
// and the lookup-only search paths hold the reader lock.
package hypergraph
