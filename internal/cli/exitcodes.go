package cli

import (
	"errors"

	"github.com/yaklabco/hyperseq/internal/configloader"
	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

// Exit codes for hyperseq.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates the command ran but reported a negative result:
	// a query that matched nothing or files that could not be ingested.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates a corrupt or unsupported snapshot.
	ExitDataError = 65

	// ExitNoInput indicates a missing input or snapshot file.
	ExitNoInput = 66

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConflict indicates the snapshot changed on disk during the command.
	ExitConflict = 75

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

var (
	// ErrNoMatch is returned by query when at least one query is not indexed.
	ErrNoMatch = errors.New("no match")

	// ErrIngestFailures is returned by ingest when some files could not be
	// ingested. The snapshot is still saved.
	ErrIngestFailures = errors.New("some files could not be ingested")

	// ErrInvalidUsage marks bad arguments.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNoMatch), errors.Is(err, ErrIngestFailures):
		return ExitFailure
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, snapshot.ErrConflict):
		return ExitConflict
	case errors.Is(err, snapshot.ErrFormat), errors.Is(err, snapshot.ErrVersion), errors.Is(err, snapshot.ErrChecksum):
		return ExitDataError
	case errors.Is(err, fsutil.ErrNotFound):
		return ExitNoInput
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err was already shown to the user as command
// output, so it only needs to drive the exit code.
func IsReported(err error) bool {
	return errors.Is(err, ErrNoMatch) || errors.Is(err, ErrIngestFailures)
}
