package snapshot_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

func buildGraph(t *testing.T, inputs ...string) *hypergraph.Graph[rune] {
	t.Helper()

	g := hypergraph.New[rune]()
	for _, input := range inputs {
		_, err := g.Ingest([]rune(input))
		require.NoError(t, err)
	}
	return g
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "Hello world!", "abab", "ba", "héllo ✓")
	id := uuid.New()
	saved := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	header, err := snapshot.Encode(&buf, g, id, saved)
	require.NoError(t, err)
	assert.Equal(t, snapshot.FormatName, header.Format)
	assert.Equal(t, id, header.GraphID)
	assert.Len(t, header.Checksum, 16)

	restored, got, err := snapshot.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, header, got)
	assert.Equal(t, g.Export(), restored.Export())

	info, ok := restored.Query([]rune("héllo ✓"))
	require.True(t, ok)
	assert.Equal(t, 7, info.Width)
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := snapshot.Encode(&buf, buildGraph(t, "abab"), uuid.New(), time.Now())
	require.NoError(t, err)
	valid := buf.String()
	headerLine, payload, _ := strings.Cut(valid, "\n")

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: snapshot.ErrFormat},
		{name: "not json", input: "hello\n{}", want: snapshot.ErrFormat},
		{name: "wrong format", input: `{"format":"other","version":1}` + "\n{}", want: snapshot.ErrFormat},
		{name: "wrong version", input: strings.Replace(headerLine, `"version":1`, `"version":9`, 1) + "\n" + payload, want: snapshot.ErrVersion},
		{name: "corrupt body", input: headerLine + "\n" + strings.Replace(payload, `"width":2`, `"width":3`, 1), want: snapshot.ErrChecksum},
		{name: "truncated", input: valid[:len(valid)-5], want: snapshot.ErrChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := snapshot.Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.hsq")

	snap, err := snapshot.Open(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, snap.Graph.Len())
	graphID := snap.Header.GraphID
	require.NotEqual(t, uuid.Nil, graphID)

	_, err = snap.Graph.Ingest([]rune("Hello world!"))
	require.NoError(t, err)
	require.NoError(t, snap.Save(ctx, snapshot.SaveOptions{Backup: fsutil.BackupModeSidecar}))
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar), "nothing to back up on first save")

	loaded, err := snapshot.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, graphID, loaded.Header.GraphID)
	assert.Equal(t, snap.Graph.Export(), loaded.Graph.Export())

	_, err = loaded.Graph.Ingest([]rune("Hello there"))
	require.NoError(t, err)
	require.NoError(t, loaded.Save(ctx, snapshot.SaveOptions{Backup: fsutil.BackupModeSidecar}))
	assert.True(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))

	header, stats, err := snapshot.Verify(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, graphID, header.GraphID)
	assert.Equal(t, loaded.Graph.Stats(), stats)

	backup, err := snapshot.Load(ctx, fsutil.BackupPath(path, fsutil.BackupModeSidecar))
	require.NoError(t, err)
	assert.Equal(t, snap.Graph.Export(), backup.Graph.Export())
}

func TestSave_Conflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.hsq")

	first := snapshot.New(path)
	require.NoError(t, first.Save(ctx, snapshot.SaveOptions{}))

	second, err := snapshot.Load(ctx, path)
	require.NoError(t, err)
	_, err = second.Graph.Ingest([]rune("abc"))
	require.NoError(t, err)
	require.NoError(t, second.Save(ctx, snapshot.SaveOptions{}))

	_, err = first.Graph.Ingest([]rune("xyz"))
	require.NoError(t, err)
	err = first.Save(ctx, snapshot.SaveOptions{})
	require.ErrorIs(t, err, snapshot.ErrConflict)

	require.NoError(t, first.Save(ctx, snapshot.SaveOptions{Force: true}))
	loaded, err := snapshot.Load(ctx, path)
	require.NoError(t, err)
	_, ok := loaded.Graph.Query([]rune("xyz"))
	assert.True(t, ok)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := snapshot.Load(context.Background(), filepath.Join(t.TempDir(), "missing.hsq"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestLoad_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.hsq")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := snapshot.Load(context.Background(), path)
	require.ErrorIs(t, err, snapshot.ErrFormat)
}
