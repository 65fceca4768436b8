package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/pkg/fsutil"
)

// writeTemp writes content to a fresh file and returns its path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	content, info, err := fsutil.ReadFile(ctx, writeTemp(t, "corpus.txt", "abab"))
	require.NoError(t, err)
	assert.Equal(t, "abab", string(content))
	assert.EqualValues(t, 4, info.Size)
	assert.NotZero(t, info.Hash)

	_, _, err = fsutil.ReadFile(ctx, filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(ctx, t.TempDir())
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = fsutil.ReadFile(cancelled, "anything")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		change func(t *testing.T, path string, info *fsutil.FileInfo)
		want   bool
	}{
		{
			name:   "unchanged",
			change: func(*testing.T, string, *fsutil.FileInfo) {},
			want:   false,
		},
		{
			name: "same size and mod time, new content",
			change: func(t *testing.T, path string, info *fsutil.FileInfo) {
				require.NoError(t, os.WriteFile(path, []byte("bbbb"), 0o600))
				require.NoError(t, os.Chtimes(path, time.Now(), info.ModTime))
			},
			want: true,
		},
		{
			name: "deleted",
			change: func(t *testing.T, path string, _ *fsutil.FileInfo) {
				require.NoError(t, os.Remove(path))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTemp(t, "index.snap", "aaaa")
			_, info, err := fsutil.ReadFile(ctx, path)
			require.NoError(t, err)

			tt.change(t, path, info)
			modified, err := fsutil.CheckModified(ctx, info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, modified)
		})
	}

	_, err := fsutil.CheckModified(ctx, nil)
	require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
}
