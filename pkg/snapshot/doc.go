// Package snapshot persists a rune hypergraph to a single file.
//
// A snapshot is two JSON documents separated by a newline. The first line is
// a Header naming the format version, the graph identity, the save time and
// the xxhash64 checksum and size of the body. The body holds the leaves,
// the vertices with their patterns and the split memo. Vertex ids are
// preserved, so a restored graph continues to grow exactly as the saved one
// would have.
package snapshot
