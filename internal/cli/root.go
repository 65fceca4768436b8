// Package cli wires the hyperseq commands: ingest, query, inspect, stats,
// verify, init and version.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/configloader"
	"github.com/yaklabco/hyperseq/internal/logging"
)

// BuildInfo is stamped into the binary by the build's ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand returns the hyperseq command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "hyperseq",
		Short: "An incremental, deduplicating index of token sequences",
		Long: `hyperseq indexes text as a hypergraph of shared subsequences.

Every ingested sequence becomes a vertex whose decompositions reuse the
vertices of everything indexed before it, so repeated content is stored
once. Any sequence that was ingested, or that the index materialized as a
vertex while ingesting, can be queried exactly without modifying the index.

The index is kept in a snapshot file (.hyperseq.snap by default) that is
written atomically, with the previous version kept as a backup.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, flagDebug, false, "enable debug logging")
	flags.String(flagConfig, "", "path to config file")
	flags.String(flagSnapshot, "", "path to the index snapshot (overrides config)")
	flags.StringVar(&color, flagColor, "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(
		newIngestCommand(),
		newQueryCommand(),
		newInspectCommand(),
		newStatsCommand(),
		newVerifyCommand(),
		newInitCommand(),
		newVersionCommand(info),
	)

	// Registered before Execute so that "--help --color never" parses
	// "never" as the flag's value rather than as a subcommand name.
	rootCmd.InitDefaultHelpFlag()

	help := NewHelpFormatter(color, os.Stdout)
	help.SetEnvironment(configloader.ListEnvVars())
	help.ApplyToCommand(rootCmd)

	return rootCmd
}
