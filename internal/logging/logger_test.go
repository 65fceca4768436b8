package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"Info":    log.InfoLevel,
		" warn ":  log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"trace":   log.InfoLevel,
		"":        log.InfoLevel,
	} {
		assert.Equal(t, want, logging.ParseLevel(name), "level %q", name)
		assert.Equal(t, want, logging.New(name).GetLevel(), "New(%q)", name)
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("snapshot loaded")
	logger.Warn("file not ingested", logging.FieldPath, "corpus.txt")

	assert.NotContains(t, buf.String(), "snapshot loaded")
	assert.Contains(t, buf.String(), "file not ingested")
	assert.Contains(t, buf.String(), "path=corpus.txt")
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Equal(t, "hyperseq", logger.GetPrefix())
}

// The fallback logger is process-wide, so these cases run serially.
func TestDefaultLogger(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, replacement.GetLevel())
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)

	assert.Same(t, logger, logging.FromContext(ctx))
	assert.NotNil(t, logging.FromContext(context.Background()))
}

func TestGraphObserver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	observer := logging.NewGraphObserver(logging.NewWithWriter(&buf, "debug"))

	g := hypergraph.New[rune](hypergraph.WithObserver(observer))
	_, err := g.Ingest([]rune("abab"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "vertex added")
	assert.Contains(t, out, "pattern added")
	assert.Contains(t, out, logging.FieldVertex+"=v3")
}
