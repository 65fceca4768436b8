package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/ui/pretty"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

const defaultMaxParents = 20

type inspectFlags struct {
	format     string
	text       bool
	maxParents int
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect <vertex>",
		Short: "Show a vertex with its patterns and parents",
		Long: `Show one vertex of the index: the text it spans, every pattern that
decomposes it, and the larger vertices it occurs in.

The vertex is given by id ("v12" or "12"), or with --text by the text it
spans.

Examples:
  hyperseq inspect v12
  hyperseq inspect --text "Hello"
  hyperseq inspect --format json 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json")
	cmd.Flags().BoolVar(&flags.text, "text", false, "look the vertex up by the text it spans")
	cmd.Flags().IntVar(&flags.maxParents, "parents", defaultMaxParents, "maximum parents to show (0 = all)")

	return cmd
}

// parseVertexID accepts "v12" and "12".
func parseVertexID(arg string) (hypergraph.VertexID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(arg, "v"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a vertex id", ErrInvalidUsage, arg)
	}
	return hypergraph.VertexID(n), nil
}

func runInspect(cmd *cobra.Command, arg string, flags *inspectFlags) error {
	if flags.format != formatText && flags.format != formatJSON {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidUsage, flags.format)
	}

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(sess.ctx, sess.cfg.Snapshot)
	if err != nil {
		return err
	}

	var id hypergraph.VertexID
	if flags.text {
		tok, err := sess.tokenizer()
		if err != nil {
			return err
		}
		info, err := snap.Graph.Lookup(tok.Text(arg))
		if err != nil {
			fmt.Fprint(sess.out, sess.styles.FormatQueryMiss(arg, err))
			return ErrNoMatch
		}
		id = info.ID
	} else {
		id, err = parseVertexID(arg)
		if err != nil {
			return err
		}
	}

	view, err := pretty.Describe(snap.Graph, id, flags.maxParents)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	if flags.format == formatJSON {
		encoder := json.NewEncoder(sess.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(view); err != nil {
			return fmt.Errorf("write vertex: %w", err)
		}
		return nil
	}

	fmt.Fprint(sess.out, sess.styles.FormatVertex(view))
	return nil
}
