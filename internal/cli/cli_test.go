package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/cli"
	"github.com/yaklabco/hyperseq/internal/configloader"
	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

func newRoot() *cobra.Command {
	return cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-01"})
}

func TestCommandTree(t *testing.T) {
	t.Parallel()

	root := newRoot()
	if root.Use != "hyperseq" || root.Short == "" || root.Long == "" {
		t.Errorf("root command not described: use=%q", root.Use)
	}
	for _, name := range []string{"debug", "config", "snapshot", "color"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing global flag --%s", name)
		}
	}

	commands := map[string][]string{
		"ingest": {
			"format", "unit", "normalize", "lowercase", "markdown", "stream", "jobs",
			"ignore", "ext", "no-backup", "force", "metrics-out",
		},
		"query":   nil,
		"inspect": nil,
		"stats":   nil,
		"verify":  nil,
		"init":    nil,
		"version": nil,
	}
	for name, flags := range commands {
		sub, _, err := root.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
			continue
		}
		for _, flag := range flags {
			if sub.Flags().Lookup(flag) == nil {
				t.Errorf("%s: missing flag --%s", name, flag)
			}
		}
	}

	ingest, _, _ := root.Find([]string{"ingest"})
	if err := ingest.Args(ingest, []string{"notes.txt", "docs/"}); err != nil {
		t.Errorf("ingest rejects path arguments: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := newRoot()
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"hyperseq", "1.2.3", "abc123", "2024-01-01"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("version output %q does not contain %q", out.String(), want)
		}
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantNot []string
	}{
		{
			name: "root lists environment",
			args: []string{"--help", "--color", "never"},
			want: []string{"Usage:", "Environment:", "HYPERSEQ_SNAPSHOT"},
		},
		{
			name: "color before help",
			args: []string{"--color=never", "--help"},
			want: []string{"Environment:"},
		},
		{
			name:    "subcommand",
			args:    []string{"ingest", "--help", "--color", "never"},
			want:    []string{"Usage:", "--metrics-out", "Global Flags:"},
			wantNot: []string{"Environment:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRoot()
			cmd.SetArgs(tt.args)
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("%v failed: %v", tt.args, err)
			}
			for _, want := range tt.want {
				if !bytes.Contains(out.Bytes(), []byte(want)) {
					t.Errorf("help does not contain %q:\n%s", want, out.String())
				}
			}
			for _, unwanted := range append(tt.wantNot, "\x1b[") {
				if bytes.Contains(out.Bytes(), []byte(unwanted)) {
					t.Errorf("help contains %q:\n%q", unwanted, out.String())
				}
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: cli.ExitSuccess},
		{err: cli.ErrNoMatch, want: cli.ExitFailure},
		{err: fmt.Errorf("run: %w", cli.ErrIngestFailures), want: cli.ExitFailure},
		{err: cli.ErrInvalidUsage, want: cli.ExitInvalidUsage},
		{err: errors.Join(errors.New("load"), &configloader.ValidationError{Field: "ingest.unit"}), want: cli.ExitConfigError},
		{err: fmt.Errorf("save: %w", snapshot.ErrConflict), want: cli.ExitConflict},
		{err: fmt.Errorf("load: %w", snapshot.ErrChecksum), want: cli.ExitDataError},
		{err: fmt.Errorf("load: %w", fsutil.ErrNotFound), want: cli.ExitNoInput},
		{err: fsutil.ErrPermissionDenied, want: cli.ExitIOError},
		{err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		if got := cli.ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	if !cli.IsReported(cli.ErrNoMatch) || cli.IsReported(errors.New("boom")) {
		t.Error("IsReported misclassifies errors")
	}
}
