// Package logging wraps charmbracelet/log with the level names, field keys and
// context plumbing the hyperseq commands share.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide fallback logger
var (
	fallbackMu     sync.RWMutex
	fallbackLogger *log.Logger
)

//nolint:gochecknoglobals // read-only lookup table
var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// New returns a stderr logger at the named level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger at the named level that writes plain
// key=value lines to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// NewInteractive returns the logger used by the interactive query prompt:
// info level, timestamped and prefixed with the program name.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		Prefix:          "hyperseq",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// ParseLevel maps a level name, in any case, to a log level. Unknown names
// map to info.
func ParseLevel(name string) log.Level {
	if level, ok := levels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level
	}
	return log.InfoLevel
}

// Default returns the logger used when no logger travels in a context.
func Default() *log.Logger {
	fallbackMu.RLock()
	logger := fallbackLogger
	fallbackMu.RUnlock()
	if logger != nil {
		return logger
	}

	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	if fallbackLogger == nil {
		fallbackLogger = New("info")
	}
	return fallbackLogger
}

// SetDefault replaces the fallback logger.
func SetDefault(logger *log.Logger) {
	fallbackMu.Lock()
	fallbackLogger = logger
	fallbackMu.Unlock()
}

// SetLevel changes the level of the fallback logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
