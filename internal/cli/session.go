package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/hyperseq/internal/configloader"
	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/internal/ui/pretty"
	"github.com/yaklabco/hyperseq/pkg/config"
	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/tokenize"
)

// Persistent flag names shared by every command.
const (
	flagConfig   = "config"
	flagSnapshot = "snapshot"
	flagDebug    = "debug"
	flagColor    = "color"
)

// session is the resolved environment of one command invocation.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *log.Logger
	styles  *pretty.Styles
	out     io.Writer
	errOut  io.Writer
	workDir string
}

// newSession loads the configuration for cmd, with flags taking precedence
// over every config source.
func newSession(cmd *cobra.Command, flags *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flags == nil {
		flags = &config.Config{}
	}
	if cmd.Flags().Changed(flagSnapshot) {
		snapshotPath, err := cmd.Flags().GetString(flagSnapshot)
		if err != nil {
			return nil, fmt.Errorf("get snapshot flag: %w", err)
		}
		flags.Snapshot = snapshotPath
	}

	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flags,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}
	cfg := loadResult.Config

	level := cfg.LogLevel
	if debug, _ := cmd.Flags().GetBool(flagDebug); debug {
		level = "debug"
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	colorMode, err := cmd.Flags().GetString(flagColor)
	if err != nil {
		colorMode = "auto"
	}

	return &session{
		ctx:     logging.WithLogger(ctx, logger),
		cfg:     cfg,
		logger:  logger,
		styles:  pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout())),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		workDir: workDir,
	}, nil
}

// tokenizer builds the token front-end from the configuration.
func (s *session) tokenizer() (*tokenize.Tokenizer, error) {
	tok, err := tokenize.New(tokenize.Options{
		Normalize: s.cfg.Tokenizer.Normalize,
		Lowercase: config.BoolValue(s.cfg.Tokenizer.Lowercase),
		Markdown:  config.BoolValue(s.cfg.Tokenizer.Markdown),
		Unit:      s.cfg.Ingest.Unit,
	})
	if err != nil {
		return nil, fmt.Errorf("configure tokenizer: %w", err)
	}
	return tok, nil
}

// backupMode maps the configured backup mode.
func (s *session) backupMode() fsutil.BackupMode {
	if s.cfg.Backups.Mode == config.BackupNone {
		return fsutil.BackupModeNone
	}
	return fsutil.BackupModeSidecar
}

// terminalWidth returns the width of the output terminal, or zero when the
// output is not a terminal.
func (s *session) terminalWidth() int {
	f, ok := s.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
