package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
	"github.com/yaklabco/hyperseq/pkg/tokenize"
)

// Runner ingests files into a graph.
type Runner struct {
	// Graph receives every ingested unit.
	Graph *hypergraph.Graph[rune]

	// Tokenizer turns file content into units.
	Tokenizer *tokenize.Tokenizer
}

// New creates a new Runner.
func New(graph *hypergraph.Graph[rune], tokenizer *tokenize.Tokenizer) *Runner {
	return &Runner{Graph: graph, Tokenizer: tokenizer}
}

// Run discovers files under opts.Paths and ingests them.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Reads and tokenizes files concurrently, at most opts.Jobs at a time
//   - Ingests the units in path order, so equal inputs build equal graphs
//   - Respects context cancellation
//
// Per-file failures are reported in the Result; the returned error is set
// only for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Each file gets its own ready channel so ingestion can start on the
	// first file while later ones are still being read.
	outcomes := make([]FileOutcome, len(files))
	ready := make([]chan struct{}, len(files))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	go func() {
		for i, path := range files {
			if groupCtx.Err() != nil {
				close(ready[i])
				continue
			}
			group.Go(func() error {
				defer close(ready[i])
				outcomes[i] = r.prepare(groupCtx, path)
				return nil
			})
		}
	}()

	before := r.Graph.Len()
	var runErr error
	for i := range files {
		<-ready[i]
		if runErr != nil {
			continue
		}
		outcome := outcomes[i]
		if outcome.Path == "" {
			// Never dispatched: the run was cancelled.
			runErr = groupCtx.Err()
			continue
		}
		if outcome.Error == nil && !outcome.Skipped {
			runErr = r.ingest(ctx, &outcome, opts.Stream)
		}
		if runErr != nil {
			continue
		}
		result.accumulate(outcome)
		if opts.Progress != nil {
			opts.Progress(outcome)
		}
	}

	_ = group.Wait()
	result.Stats.VerticesAdded = r.Graph.Len() - before

	if runErr == nil {
		runErr = ctx.Err()
	}
	if runErr != nil {
		return result, fmt.Errorf("run cancelled: %w", runErr)
	}
	return result, nil
}

// prepare reads and tokenizes one file.
func (r *Runner) prepare(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Info = info
	outcome.Kind = tokenize.Classify(path, content)

	outcome.units = r.Tokenizer.Units(path, content)
	outcome.Skipped = len(outcome.units) == 0
	return outcome
}

// ingest feeds the units of outcome to the graph. An error is returned only
// when ctx is cancelled; other failures are recorded on the outcome.
func (r *Runner) ingest(ctx context.Context, outcome *FileOutcome, stream bool) error {
	for _, unit := range outcome.units {
		var (
			root hypergraph.Child
			err  error
		)
		if stream {
			root, err = r.ingestStream(ctx, unit)
		} else {
			root, err = r.Graph.Ingest(unit)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			outcome.Error = fmt.Errorf("ingest %s: %w", outcome.Path, err)
			return nil
		}
		outcome.Roots = append(outcome.Roots, root)
		outcome.Tokens += root.Width
	}
	return nil
}

// ingestStream feeds one unit through the incremental reader. The unit is
// already normalized, so the stream applies no further normalization.
func (r *Runner) ingestStream(ctx context.Context, unit []rune) (hypergraph.Child, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tokens, errs := tokenize.Stream(streamCtx, strings.NewReader(string(unit)), tokenize.Normalizer{})
	root, err := r.Graph.IngestStream(streamCtx, tokens)

	// Unblock and drain the producer before reporting.
	cancel()
	for range tokens {
	}
	if streamErr := <-errs; streamErr != nil {
		return root, errors.Join(err, streamErr)
	}
	return root, err
}
