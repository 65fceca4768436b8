package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the hyperseq version, commit, build date, Go version and the snapshot format it reads and writes.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logging.NewWithWriter(cmd.OutOrStdout(), "info").Info("hyperseq",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
				"snapshot_format", snapshot.Version,
			)
		},
	}
}
