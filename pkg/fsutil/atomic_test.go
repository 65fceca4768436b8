package fsutil_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/hyperseq/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "graph.json")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("hello"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != "hello" {
			t.Errorf("content = %q, want %q", got, "hello")
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %v, want %v", stat.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("failed write leaves target untouched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "graph.json")
		if err := os.WriteFile(path, []byte("original"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		boom := errors.New("boom")
		err := fsutil.WriteAtomicFunc(context.Background(), path, 0600, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want boom", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != "original" {
			t.Errorf("content = %q, want original", got)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("temp file left behind: %d entries", len(entries))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "x"), nil, 0)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.json")

	rotated, err := fsutil.RotateBackup(ctx, path, fsutil.BackupModeSidecar)
	if err != nil || rotated {
		t.Fatalf("rotate missing file = %v, %v; want false, nil", rotated, err)
	}

	for _, content := range []string{"v1", "v2"} {
		if _, err := fsutil.RotateBackup(ctx, path, fsutil.BackupModeSidecar); err != nil {
			t.Fatalf("RotateBackup() error = %v", err)
		}
		if err := fsutil.WriteAtomic(ctx, path, []byte(content), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
	}

	if !fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
		t.Fatal("backup missing")
	}
	backup, err := os.ReadFile(fsutil.BackupPath(path, fsutil.BackupModeSidecar))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != "v1" {
		t.Errorf("backup = %q, want previous version v1", backup)
	}

	restored, err := fsutil.RestoreBackup(ctx, path, fsutil.BackupModeSidecar)
	if err != nil || !restored {
		t.Fatalf("RestoreBackup() = %v, %v; want true, nil", restored, err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("restored = %q, want v1", got)
	}

	if fsutil.BackupPath(path, fsutil.BackupModeNone) != "" || fsutil.BackupExists(path, fsutil.BackupModeNone) {
		t.Error("none mode must not report a backup")
	}
}
