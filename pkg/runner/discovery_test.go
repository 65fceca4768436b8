package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/yaklabco/hyperseq/pkg/runner"
)

// writeTree creates files under dir, each containing content.
func writeTree(t *testing.T, dir string, content string, files ...string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "hello", "notes.txt")
	file := filepath.Join(dir, "notes.txt")

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{file},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Errorf("Discover() = %v, want [%s]", files, file)
	}
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "content",
		"readme.md",
		"notes/one.txt",
		"notes/two.markdown",
		"src/main.go",
		".hidden/secret.txt",
		"notes/.draft.txt",
		"vendor/lib/readme.md",
		"node_modules/pkg/readme.md",
	)

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			opts: runner.Options{},
			want: []string{"notes/one.txt", "notes/two.markdown", "readme.md"},
		},
		{
			name: "extensions",
			opts: runner.Options{Extensions: []string{".go"}},
			want: []string{"src/main.go"},
		},
		{
			name: "any extension",
			opts: runner.Options{Extensions: []string{"*"}},
			want: []string{"notes/one.txt", "notes/two.markdown", "readme.md", "src/main.go"},
		},
		{
			name: "exclude",
			opts: runner.Options{ExcludeGlobs: []string{"notes/**"}},
			want: []string{"readme.md"},
		},
		{
			name: "double star",
			opts: runner.Options{ExcludeGlobs: []string{"**/*.txt"}},
			want: []string{"notes/two.markdown", "readme.md"},
		},
		{
			name: "brace alternatives",
			opts: runner.Options{ExcludeGlobs: []string{"**/*.{txt,markdown}"}},
			want: []string{"readme.md"},
		},
		{
			name: "brace base name",
			opts: runner.Options{IncludeGlobs: []string{"{one,readme}.*"}},
			want: []string{"notes/one.txt", "readme.md"},
		},
		{
			name: "repeated double star",
			opts: runner.Options{IncludeGlobs: []string{"**/**/**/**/*.md"}},
			want: []string{"readme.md"},
		},
		{
			name: "include",
			opts: runner.Options{IncludeGlobs: []string{"*.txt"}},
			want: []string{"notes/one.txt"},
		},
		{
			name: "vendored",
			opts: runner.Options{IncludeVendored: true, ExcludeGlobs: []string{"notes/**"}},
			want: []string{"node_modules/pkg/readme.md", "readme.md", "vendor/lib/readme.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = dir

			files, err := runner.Discover(context.Background(), opts)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			want := make([]string, len(tt.want))
			for i, rel := range tt.want {
				want[i] = filepath.Join(dir, rel)
			}
			if !slices.Equal(files, want) {
				t.Errorf("Discover() = %v, want %v", files, want)
			}
		})
	}
}

func TestDiscover_Dedup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "x", "a.txt", "sub/b.txt")

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{".", "a.txt", "sub", "sub/b.txt"},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Discover() = %v, want 2 files", files)
	}
}

func TestDiscover_Missing(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"does-not-exist"},
		WorkingDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("Discover() expected error for missing path")
	}
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	if err == nil {
		t.Fatal("Discover() expected error for cancelled context")
	}
}
