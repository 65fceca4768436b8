package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
	"github.com/yaklabco/hyperseq/pkg/tokenize"
)

// Output formats of the query and inspect commands.
const (
	formatText = "text"
	formatJSON = "json"
)

const queryPrompt = "> "

type queryFlags struct {
	format string
}

func newQueryCommand() *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query [text...]",
		Short: "Look up sequences in the index",
		Long: `Look up each argument in the index and print the vertex that spans it
exactly. Queries are tokenized like ingested text, so the same
normalization and case folding apply. Querying never modifies the index.

Without arguments, queries are read from standard input, one per line.
On a terminal this starts an interactive prompt; end it with Ctrl-D.

The exit status is 1 if any query is not indexed.

Examples:
  hyperseq query "Hello world"         # Single query
  hyperseq query Hello world           # Two queries
  hyperseq query < phrases.txt         # One query per input line
  hyperseq query --format json Hello   # Machine-readable result`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json")

	return cmd
}

// queryResult is the JSON form of one query.
type queryResult struct {
	Query string               `json:"query"`
	Found bool                 `json:"found"`
	ID    *hypergraph.VertexID `json:"id,omitempty"`
	Width int                  `json:"width,omitempty"`
	Error string               `json:"error,omitempty"`
}

// querier answers queries against a loaded index.
type querier struct {
	sess      *session
	graph     *hypergraph.Graph[rune]
	tokenizer *tokenize.Tokenizer
	format    string
	encoder   *json.Encoder
	misses    int
}

func runQuery(cmd *cobra.Command, args []string, flags *queryFlags) error {
	if flags.format != formatText && flags.format != formatJSON {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidUsage, flags.format)
	}

	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	tok, err := sess.tokenizer()
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(sess.ctx, sess.cfg.Snapshot)
	if err != nil {
		return err
	}
	sess.logger.Debug("index loaded",
		logging.FieldSnapshot, snap.Path,
		logging.FieldGraphID, snap.Header.GraphID,
		logging.FieldVertices, snap.Graph.Len(),
	)

	q := &querier{
		sess:      sess,
		graph:     snap.Graph,
		tokenizer: tok,
		format:    flags.format,
		encoder:   json.NewEncoder(sess.out),
	}

	if len(args) > 0 {
		for _, arg := range args {
			if err := q.answer(arg); err != nil {
				return err
			}
		}
	} else if err := q.readQueries(cmd.InOrStdin()); err != nil {
		return err
	}

	if q.misses > 0 {
		return ErrNoMatch
	}
	return nil
}

// readQueries answers one query per line of in, prompting when in is an
// interactive terminal.
func (q *querier) readQueries(in io.Reader) error {
	interactive := false
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		interactive = true
		logging.NewInteractive().Info("index ready",
			logging.FieldVertices, q.graph.Len(),
			logging.FieldSnapshot, q.sess.cfg.Snapshot,
		)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1<<20)
	for {
		if interactive {
			fmt.Fprint(q.sess.errOut, queryPrompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if interactive && line == "" {
			continue
		}
		if err := q.answer(line); err != nil {
			return err
		}
	}
	if interactive {
		fmt.Fprintln(q.sess.errOut)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read queries: %w", err)
	}
	return nil
}

// answer looks up one query and writes the result.
func (q *querier) answer(query string) error {
	tokens := q.tokenizer.Text(query)
	info, err := q.graph.Lookup(tokens)
	if err != nil && !hypergraph.IsNotFound(err) && !errors.Is(err, hypergraph.ErrEmptyInput) {
		return fmt.Errorf("query %q: %w", query, err)
	}
	if err != nil {
		q.misses++
	}

	if q.format == formatJSON {
		result := queryResult{Query: query, Found: err == nil}
		if err == nil {
			result.ID = &info.ID
			result.Width = info.Width
		} else {
			result.Error = err.Error()
		}
		if err := q.encoder.Encode(result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	}

	if err != nil {
		fmt.Fprint(q.sess.out, q.sess.styles.FormatQueryMiss(query, err))
		return nil
	}
	fmt.Fprint(q.sess.out, q.sess.styles.FormatQueryHit(query, info))
	return nil
}
