package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupMode selects whether a snapshot keeps its previous version.
type BackupMode string

const (
	// BackupModeSidecar keeps the previous version at path + BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone keeps nothing.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to a path to name its sidecar backup.
const BackupSuffix = ".bak"

// BackupPath returns where the backup of path lives, or "" for
// BackupModeNone.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// RotateBackup copies path over its backup before path is replaced. It
// reports false when there is nothing to back up.
func RotateBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false, nil
	}
	copied, err := copyFile(ctx, path, backup)
	if err != nil {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}
	return copied, nil
}

// RestoreBackup copies the backup of path back over path. It reports false
// when there is no backup.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false, nil
	}
	copied, err := copyFile(ctx, backup, path)
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}
	return copied, nil
}

// BackupExists reports whether path has a backup on disk.
func BackupExists(path string, mode BackupMode) bool {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false
	}
	_, err := os.Stat(backup)
	return err == nil
}

// copyFile atomically replaces to with the content and mode of from. A
// missing from is not an error; it reports false.
func copyFile(ctx context.Context, from, to string) (bool, error) {
	content, info, err := ReadFile(ctx, from)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := WriteAtomic(ctx, to, content, info.Mode); err != nil {
		return false, err
	}
	return true, nil
}
