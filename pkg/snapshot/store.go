package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

// ErrConflict is returned by Save when the snapshot file changed on disk
// after it was loaded.
var ErrConflict = errors.New("snapshot modified since load")

// Snapshot is a graph bound to its file.
type Snapshot struct {
	// Path is the snapshot file.
	Path string

	// Graph is the indexed graph.
	Graph *hypergraph.Graph[rune]

	// Header is the header last read or written. GraphID is stable across
	// saves of the same graph.
	Header Header

	// file records the on-disk state at load or save time.
	file *fsutil.FileInfo
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Backup selects whether the previous file is kept as a sidecar.
	Backup fsutil.BackupMode

	// Force skips the conflict check.
	Force bool

	// Now overrides the save timestamp. Zero means time.Now.
	Now time.Time
}

// New returns an unsaved snapshot holding an empty graph.
func New(path string, opts ...hypergraph.Option) *Snapshot {
	return &Snapshot{
		Path:   path,
		Graph:  hypergraph.New[rune](opts...),
		Header: Header{Format: FormatName, Version: Version, GraphID: uuid.New()},
	}
}

// Load reads and verifies the snapshot at path.
func Load(ctx context.Context, path string, opts ...hypergraph.Option) (*Snapshot, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	g, header, err := Decode(bytes.NewReader(content), opts...)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return &Snapshot{Path: path, Graph: g, Header: header, file: info}, nil
}

// Open loads the snapshot at path, or returns a new empty one when the file
// does not exist.
func Open(ctx context.Context, path string, opts ...hypergraph.Option) (*Snapshot, error) {
	snap, err := Load(ctx, path, opts...)
	if errors.Is(err, fsutil.ErrNotFound) {
		return New(path, opts...), nil
	}
	return snap, err
}

// Save writes the graph to Path atomically. Unless opts.Force is set, Save
// refuses to overwrite a file that changed since it was loaded or last saved.
func (s *Snapshot) Save(ctx context.Context, opts SaveOptions) error {
	if !opts.Force && s.file != nil {
		modified, err := fsutil.CheckModified(ctx, s.file)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if modified {
			return fmt.Errorf("%w: %s", ErrConflict, s.Path)
		}
	}

	if _, err := fsutil.RotateBackup(ctx, s.Path, opts.Backup); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	graphID := s.Header.GraphID
	if graphID == uuid.Nil {
		graphID = uuid.New()
	}

	var header Header
	err := fsutil.WriteAtomicFunc(ctx, s.Path, fsutil.DefaultFileMode, func(w io.Writer) error {
		var err error
		header, err = Encode(w, s.Graph, graphID, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.Path, err)
	}
	s.Header = header

	// Record what was written so the next Save can detect outside changes.
	_, info, err := fsutil.ReadFile(ctx, s.Path)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.file = info
	return nil
}

// Verify reads the snapshot at path and checks its header, checksum and
// graph invariants without keeping the graph.
func Verify(ctx context.Context, path string) (Header, hypergraph.Stats, error) {
	snap, err := Load(ctx, path)
	if err != nil {
		return Header{}, hypergraph.Stats{}, err
	}
	return snap.Header, snap.Graph.Stats(), nil
}
