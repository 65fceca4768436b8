// Package runner ingests files into a hypergraph: it discovers inputs,
// tokenizes them concurrently and feeds the units to the graph.
package runner

// Options selects the files of one ingest run and how they are fed.
type Options struct {
	// Paths are files or directories, relative to WorkingDir unless
	// absolute. Empty means ".".
	Paths      []string
	WorkingDir string

	// Extensions lists accepted extensions with their leading dot; "*"
	// accepts all. Empty means DefaultExtensions.
	Extensions []string

	// IncludeGlobs, when set, restrict discovery to matching paths.
	// ExcludeGlobs prune files and whole directories. Both are matched
	// against slash-separated paths relative to WorkingDir.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks  bool
	IncludeVendored bool

	// Jobs bounds concurrent reads and tokenization. Values below one use
	// runtime.NumCPU. Graph mutation is always serial.
	Jobs int

	// Stream drives each unit through an async reader token by token.
	Stream bool

	// Progress is called once per file, in path order, after its units
	// reached the graph or it was skipped.
	Progress func(FileOutcome)
}

// DefaultExtensions are the plain text and markdown extensions.
func DefaultExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) > 0 {
		return o.Extensions
	}
	return DefaultExtensions()
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) > 0 {
		return o.Paths
	}
	return []string{"."}
}
