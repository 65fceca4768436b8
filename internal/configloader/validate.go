package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/hyperseq/pkg/config"
)

// ValidationError is one invalid config value.
type ValidationError struct {
	// Field is the dotted key, e.g. "tokenizer.normalize".
	Field   string
	Value   any
	Message string

	// FilePath is the config file the value came from, if known.
	FilePath string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	for _, part := range []string{e.FilePath, e.Field} {
		if part != "" {
			b.WriteString(part)
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationResult holds the errors that stop loading and the warnings that
// do not.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// oneOf fails unless value is empty (the default applies) or allowed.
func (r *ValidationResult) oneOf(field, value string, allowed ...string) {
	if value != "" && !slices.Contains(allowed, value) {
		r.fail(field, value, "invalid value %q; must be one of: %s", value, strings.Join(allowed, ", "))
	}
}

// Validate checks cfg. A nil config is valid.
func Validate(cfg *config.Config) *ValidationResult {
	r := &ValidationResult{}
	if cfg == nil {
		return r
	}

	r.oneOf("tokenizer.normalize", strings.ToLower(cfg.Tokenizer.Normalize),
		config.NormalizeNone, config.NormalizeNFC, config.NormalizeNFKC)
	r.oneOf("ingest.unit", strings.ToLower(cfg.Ingest.Unit), config.UnitFile, config.UnitLine)
	r.oneOf("format", string(cfg.Format),
		string(config.FormatText), string(config.FormatJSON), string(config.FormatPrometheus))
	r.oneOf("backups.mode", cfg.Backups.Mode, config.BackupSidecar, config.BackupNone)
	r.oneOf("log_level", strings.ToLower(cfg.LogLevel), "debug", "info", "warn", "warning", "error")

	if cfg.Ingest.Jobs < 0 {
		r.fail("ingest.jobs", cfg.Ingest.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	for i, pattern := range cfg.Ingest.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			r.fail(fmt.Sprintf("ingest.ignore[%d]", i), pattern, "invalid glob pattern")
		}
	}

	for i, ext := range cfg.Ingest.Extensions {
		if !doublestar.ValidatePattern(ext) {
			r.fail(fmt.Sprintf("ingest.extensions[%d]", i), ext, "invalid extension %q", ext)
			continue
		}
		if ext != "*" && !strings.HasPrefix(ext, ".") {
			r.warn(fmt.Sprintf("ingest.extensions[%d]", i), ext, "extension %q has no leading dot and will never match", ext)
		}
	}
	if config.BoolValue(cfg.Ingest.Stream) && strings.ToLower(cfg.Ingest.Unit) == config.UnitFile {
		r.warn("ingest.stream", true, "streaming whole files holds the index lock for the duration of each file")
	}

	return r
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	r := Validate(cfg)
	for i := range r.Errors {
		r.Errors[i].FilePath = filePath
	}
	for i := range r.Warnings {
		r.Warnings[i].FilePath = filePath
	}
	return r
}
