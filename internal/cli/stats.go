package cli

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/metrics"
	"github.com/yaklabco/hyperseq/pkg/config"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

type statsFlags struct {
	format string
}

func newStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print index statistics",
		Long: `Print the size of the index: vertices, patterns, parent links and
memoized splits.

The prometheus format writes the same numbers as gauges in the text
exposition format, suitable for a node exporter textfile collector.

Examples:
  hyperseq stats
  hyperseq stats --format json
  hyperseq stats --format prometheus > hyperseq.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json, prometheus")

	return cmd
}

// statsReport is the JSON form of the stats command.
type statsReport struct {
	Snapshot string           `json:"snapshot"`
	Header   snapshot.Header  `json:"header"`
	Graph    hypergraph.Stats `json:"graph"`
}

func runStats(cmd *cobra.Command, flags *statsFlags) error {
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("format") {
		format := config.OutputFormat(flags.format)
		switch format {
		case config.FormatText, config.FormatJSON, config.FormatPrometheus:
		default:
			return fmt.Errorf("%w: unknown format %q", ErrInvalidUsage, flags.format)
		}
		cliCfg.Format = format
	}

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(sess.ctx, sess.cfg.Snapshot)
	if err != nil {
		return err
	}

	switch sess.cfg.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(sess.out)
		encoder.SetIndent("", "  ")
		report := statsReport{Snapshot: snap.Path, Header: snap.Header, Graph: snap.Graph.Stats()}
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}

	case config.FormatPrometheus:
		registry := prometheus.NewRegistry()
		registry.MustRegister(metrics.NewGraphCollector(snap.Graph))
		if err := metrics.WriteText(sess.out, registry); err != nil {
			return err
		}

	default:
		fmt.Fprint(sess.out, sess.styles.FormatGraphStats(snap.Path, snap.Graph.Stats()))
	}
	return nil
}
