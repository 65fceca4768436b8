// Command hyperseq builds and queries an incremental index of token
// sequences.
package main

import (
	"os"

	"github.com/yaklabco/hyperseq/internal/cli"
	"github.com/yaklabco/hyperseq/internal/logging"
)

// Set with -ldflags "-X main.version=..." by the stave build.
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := root.Execute(); err != nil {
		// Misses and failed files were already reported as command output.
		if !cli.IsReported(err) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}
