package hypergraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrEmptyInput is returned when ingest or query receives no tokens.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnknownToken is returned by lookup-only paths for a token that was never ingested.
	ErrUnknownToken = errors.New("unknown token")

	// ErrNotFound indicates that no vertex matches the requested sequence.
	ErrNotFound = errors.New("no matching vertex")

	// ErrSingleChild is returned when a pattern search receives fewer than two children.
	ErrSingleChild = errors.New("pattern must have at least two children")

	// ErrUnknownVertex is returned for a vertex id that was never allocated.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrWidthMismatch is returned when a pattern's width differs from its vertex's width,
	// or a Child carries a stale width.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrPatternMismatch is returned when a pattern spans different tokens than its vertex.
	ErrPatternMismatch = errors.New("pattern content mismatch")

	// ErrRangeNotContained is returned when a split targets a range outside the vertex.
	ErrRangeNotContained = errors.New("range not contained in vertex")

	// ErrReaderResolved is returned when a finished Reader receives more input.
	ErrReaderResolved = errors.New("reader already resolved")
)

// InvariantError reports a broken graph invariant. It aborts the operation
// that detected it and is never downgraded to a not-found result.
type InvariantError struct {
	// Op is the operation that detected the violation.
	Op string

	// Vertex is the vertex being processed.
	Vertex VertexID

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %s at %s: %v", e.Op, e.Vertex, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *InvariantError) Unwrap() error {
	return e.Err
}

func invariant(op string, id VertexID, err error) error {
	return &InvariantError{Op: op, Vertex: id, Err: err}
}

// IsInvariantViolation reports whether err carries an InvariantError.
func IsInvariantViolation(err error) bool {
	var target *InvariantError
	return errors.As(err, &target)
}
