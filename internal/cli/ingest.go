package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/internal/metrics"
	"github.com/yaklabco/hyperseq/internal/ui/pretty"
	"github.com/yaklabco/hyperseq/pkg/config"
	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/runner"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

// Output formats of the ingest command.
const (
	ingestFormatText  = "text"
	ingestFormatTable = "table"
	ingestFormatJSON  = "json"
)

type ingestFlags struct {
	format         string
	unit           string
	normalize      string
	lowercase      bool
	markdown       bool
	stream         bool
	followSymlinks bool
	noBackup       bool
	vendored       bool
	metricsOut     string
}

func newIngestCommand() *cobra.Command {
	var cfg config.Config
	flags := &ingestFlags{}

	cmd := &cobra.Command{
		Use:   "ingest [paths...]",
		Short: "Add files to the index",
		Long:  ingestLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, &cfg, flags)
		},
	}

	addIngestFlags(cmd, &cfg, flags)

	return cmd
}

const ingestLongDescription = `Read text files and add their token sequences to the index.

By default, ingests all .txt, .md and .markdown files in the current
directory and subdirectories, one sequence per line. Markdown files
contribute their text, not their markup. Binary files are skipped.

Ingesting content that is already indexed leaves the index unchanged.

Examples:
  hyperseq ingest                      # Ingest the current directory
  hyperseq ingest docs/ notes.txt      # Ingest specific paths
  hyperseq ingest --unit file          # One sequence per file
  hyperseq ingest --stream             # Feed tokens through the streaming reader
  hyperseq ingest --format table       # Per-file report
  hyperseq ingest --metrics-out m.prom # Write ingest metrics`

func addIngestFlags(cmd *cobra.Command, cfg *config.Config, flags *ingestFlags) {
	cmd.Flags().StringVar(&flags.format, "format", ingestFormatText, "output format: text, table, json")
	cmd.Flags().StringVar(&flags.unit, "unit", "", "ingest unit: file or line")
	cmd.Flags().StringVar(&flags.normalize, "normalize", "", "unicode normalization: none, nfc, nfkc")
	cmd.Flags().BoolVar(&flags.lowercase, "lowercase", false, "fold case before indexing")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", true, "index the text of markdown files instead of the markup")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "feed tokens through the streaming reader")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().BoolVar(&flags.vendored, "include-vendored", false, "include vendored directories such as vendor/ and node_modules/")
	cmd.Flags().BoolVar(&flags.noBackup, "no-backup", false, "do not keep the previous snapshot as a backup")
	cmd.Flags().StringVar(&flags.metricsOut, "metrics-out", "", "write ingest metrics in prometheus text format to this file")
	cmd.Flags().IntVar(&cfg.Ingest.Jobs, "jobs", 0, "number of files read concurrently (0 = auto)")
	cmd.Flags().StringSliceVar(&cfg.Ingest.Ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&cfg.Ingest.Extensions, "ext", nil, `file extensions to ingest ("*" for all)`)
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "overwrite a snapshot that changed during the run")
}

// applyIngestFlags copies explicitly set flags into the CLI config layer.
func applyIngestFlags(cmd *cobra.Command, cfg *config.Config, flags *ingestFlags) {
	cfg.Tokenizer.Normalize = flags.normalize
	cfg.Ingest.Unit = flags.unit

	changed := cmd.Flags().Changed
	if changed("lowercase") {
		cfg.Tokenizer.Lowercase = config.Bool(flags.lowercase)
	}
	if changed("markdown") {
		cfg.Tokenizer.Markdown = config.Bool(flags.markdown)
	}
	if changed("stream") {
		cfg.Ingest.Stream = config.Bool(flags.stream)
	}
	if changed("follow-symlinks") {
		cfg.Ingest.FollowSymlinks = config.Bool(flags.followSymlinks)
	}
	if flags.noBackup {
		cfg.Backups.Mode = config.BackupNone
	}
}

func runIngest(cmd *cobra.Command, args []string, cfg *config.Config, flags *ingestFlags) error {
	switch flags.format {
	case ingestFormatText, ingestFormatTable, ingestFormatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidUsage, flags.format)
	}
	applyIngestFlags(cmd, cfg, flags)

	sess, err := newSession(cmd, cfg)
	if err != nil {
		return err
	}
	ctx := sess.ctx
	logger := sess.logger
	finalCfg := sess.cfg

	tok, err := sess.tokenizer()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)
	observer := hypergraph.Observers(recorder, logging.NewGraphObserver(logger))

	snap, err := snapshot.Open(ctx, finalCfg.Snapshot, hypergraph.WithObserver(observer))
	if err != nil {
		return err
	}
	before := snap.Graph.Stats()

	logger.Debug("configuration loaded",
		logging.FieldSnapshot, finalCfg.Snapshot,
		logging.FieldUnit, tok.Unit(),
		logging.FieldNormalize, finalCfg.Tokenizer.Normalize,
		logging.FieldStream, config.BoolValue(finalCfg.Ingest.Stream),
		logging.FieldJobs, finalCfg.Ingest.Jobs,
	)

	extensions := finalCfg.Ingest.Extensions
	if len(extensions) == 0 {
		extensions = runner.DefaultExtensions()
	}
	runOpts := runner.Options{
		Paths:           args,
		WorkingDir:      sess.workDir,
		Extensions:      extensions,
		ExcludeGlobs:    finalCfg.Ingest.Ignore,
		FollowSymlinks:  config.BoolValue(finalCfg.Ingest.FollowSymlinks),
		IncludeVendored: flags.vendored,
		Jobs:            finalCfg.Ingest.Jobs,
		Stream:          config.BoolValue(finalCfg.Ingest.Stream),
		Progress:        logProgress(ctx),
	}

	logger.Debug("starting ingest run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	start := time.Now()
	result, err := runner.New(snap.Graph, tok).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("ingest run failed: %w", err)
	}
	elapsed := time.Since(start)
	recorder.RecordRun(result.Stats)

	// A run that only added patterns or split memos still changes the graph.
	if snap.Graph.Stats() != before {
		if err := snap.Save(ctx, snapshot.SaveOptions{Backup: sess.backupMode(), Force: finalCfg.Force}); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		logger.Debug("snapshot saved",
			logging.FieldSnapshot, snap.Path,
			logging.FieldGraphID, snap.Header.GraphID,
			"size", snap.Header.Size,
		)
	}

	if flags.metricsOut != "" {
		registry.MustRegister(metrics.NewGraphCollector(snap.Graph))
		err := fsutil.WriteAtomicFunc(ctx, flags.metricsOut, fsutil.DefaultFileMode, func(w io.Writer) error {
			return metrics.WriteText(w, registry)
		})
		if err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if err := reportIngest(sess, flags.format, snap, result, elapsed); err != nil {
		return err
	}

	logger.Debug("ingest complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesIngested, result.Stats.FilesIngested,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldUnitsIngested, result.Stats.UnitsIngested,
		logging.FieldVerticesAdded, result.Stats.VerticesAdded,
		logging.FieldVertices, snap.Graph.Len(),
	)

	if result.HasFailures() {
		return ErrIngestFailures
	}
	return nil
}

// logProgress logs each finished file with the logger carried by ctx.
func logProgress(ctx context.Context) func(runner.FileOutcome) {
	logger := logging.FromContext(ctx)
	return func(outcome runner.FileOutcome) {
		if outcome.Error != nil {
			logger.Warn("file not ingested", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
			return
		}
		logger.Debug("file ingested",
			logging.FieldPath, outcome.Path,
			logging.FieldTokens, outcome.Tokens,
			"units", len(outcome.Roots),
			"skipped", outcome.Skipped,
		)
	}
}

// ingestReport is the JSON form of an ingest run.
type ingestReport struct {
	Snapshot string             `json:"snapshot"`
	GraphID  string             `json:"graph_id"`
	Duration string             `json:"duration"`
	Run      runner.Stats       `json:"run"`
	Graph    hypergraph.Stats   `json:"graph"`
	Files    []ingestFileReport `json:"files"`
}

type ingestFileReport struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Units   int    `json:"units"`
	Tokens  int    `json:"tokens"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

func reportIngest(sess *session, format string, snap *snapshot.Snapshot, result *runner.Result, elapsed time.Duration) error {
	switch format {
	case ingestFormatJSON:
		report := ingestReport{
			Snapshot: snap.Path,
			GraphID:  snap.Header.GraphID.String(),
			Duration: elapsed.Round(time.Millisecond).String(),
			Run:      result.Stats,
			Graph:    snap.Graph.Stats(),
			Files:    make([]ingestFileReport, 0, len(result.Files)),
		}
		for _, file := range result.Files {
			entry := ingestFileReport{
				Path:    file.Path,
				Kind:    file.Kind.String(),
				Units:   len(file.Roots),
				Tokens:  file.Tokens,
				Skipped: file.Skipped,
			}
			if file.Error != nil {
				entry.Error = file.Error.Error()
			}
			report.Files = append(report.Files, entry)
		}
		encoder := json.NewEncoder(sess.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

	case ingestFormatTable:
		formatter := pretty.NewTableFormatter(sess.styles, sess.terminalWidth())
		if table := formatter.FormatTable(result); table != "" {
			fmt.Fprint(sess.out, table)
		} else {
			fmt.Fprint(sess.out, sess.styles.FormatIngestSummaryOneLine(result.Stats))
		}

	default:
		fmt.Fprint(sess.out, sess.styles.FormatIngestSummaryOneLine(result.Stats))
	}
	return nil
}
