package fsutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultFileMode is used when a write is given mode 0.
const DefaultFileMode os.FileMode = 0644

// WriteAtomic replaces path with content. See WriteAtomicFunc.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	return WriteAtomicFunc(ctx, path, mode, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

// WriteAtomicFunc replaces path with whatever write produces. The output
// goes to a synced temp file in the same directory that is renamed over
// path, so readers see either the old file or the complete new one. If
// write fails the temp file is removed and path is left as it was.
func WriteAtomicFunc(ctx context.Context, path string, mode os.FileMode, write func(io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := fill(tmp, mode, write); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// fill writes, syncs, chmods and closes tmp.
func fill(tmp *os.File, mode os.FileMode, write func(io.Writer) error) error {
	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
