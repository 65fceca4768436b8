package runner

import (
	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/tokenize"
)

// FileOutcome records what happened to one input file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Kind is the detected content kind.
	Kind tokenize.Kind

	// Info describes the file as it was read. Nil if reading failed.
	Info *fsutil.FileInfo

	// Roots holds the vertex of every ingested unit, in unit order.
	Roots []hypergraph.Child

	// Tokens is the number of tokens ingested from the file.
	Tokens int

	// Skipped is set for binary files and files without any text.
	Skipped bool

	// Error is set if the file could not be read or ingested.
	Error error

	units [][]rune
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesIngested is the number of files whose units were all ingested.
	FilesIngested int

	// FilesSkipped is the number of binary or blank files.
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// UnitsIngested is the number of token sequences ingested.
	UnitsIngested int

	// TokensIngested is the total number of tokens ingested.
	TokensIngested int

	// VerticesAdded is the graph growth caused by the run.
	VerticesAdded int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file could not be ingested.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	outcome.units = nil
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Skipped:
		r.Stats.FilesSkipped++
	default:
		r.Stats.FilesIngested++
	}
	r.Stats.UnitsIngested += len(outcome.Roots)
	r.Stats.TokensIngested += outcome.Tokens
}
