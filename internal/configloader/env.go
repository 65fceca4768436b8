package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/hyperseq/pkg/config"
)

const envVarPrefix = "HYPERSEQ_"

// envBinding ties HYPERSEQ_<suffix> to one config key.
type envBinding struct {
	suffix      string
	field       string
	description string
	apply       func(cfg *config.Config, value string) error
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolVar(field func(*config.Config) **bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", value)
		}
		*field(cfg) = config.Bool(b)
		return nil
	}
}

func listVar(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*field(cfg) = items
		return nil
	}
}

// envBindings is sorted by suffix.
//
//nolint:gochecknoglobals // read-only lookup table
var envBindings = []envBinding{
	{"BACKUPS_MODE", "backups.mode", "Backup mode: sidecar or none",
		stringVar(func(c *config.Config, v string) { c.Backups.Mode = v })},
	{"FORMAT", "format", "Report format: text, json, or prometheus",
		stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"INGEST_EXTENSIONS", "ingest.extensions", "Comma-separated list of file extensions",
		listVar(func(c *config.Config) *[]string { return &c.Ingest.Extensions })},
	{"INGEST_FOLLOW_SYMLINKS", "ingest.follow_symlinks", "Follow directory symlinks: true or false",
		boolVar(func(c *config.Config) **bool { return &c.Ingest.FollowSymlinks })},
	{"INGEST_IGNORE", "ingest.ignore", "Comma-separated list of ignore patterns",
		listVar(func(c *config.Config) *[]string { return &c.Ingest.Ignore })},
	{"INGEST_JOBS", "ingest.jobs", "Number of concurrent readers (0 = auto)",
		func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			c.Ingest.Jobs = n
			return nil
		}},
	{"INGEST_STREAM", "ingest.stream", "Use the streaming reader: true or false",
		boolVar(func(c *config.Config) **bool { return &c.Ingest.Stream })},
	{"INGEST_UNIT", "ingest.unit", "Ingest unit: file or line",
		stringVar(func(c *config.Config, v string) { c.Ingest.Unit = v })},
	{"LOG_LEVEL", "log_level", "Log level: debug, info, warn, or error",
		stringVar(func(c *config.Config, v string) { c.LogLevel = v })},
	{"SNAPSHOT", "snapshot", "Snapshot file path",
		stringVar(func(c *config.Config, v string) { c.Snapshot = v })},
	{"TOKENIZER_LOWERCASE", "tokenizer.lowercase", "Fold case before indexing: true or false",
		boolVar(func(c *config.Config) **bool { return &c.Tokenizer.Lowercase })},
	{"TOKENIZER_MARKDOWN", "tokenizer.markdown", "Index markdown text only: true or false",
		boolVar(func(c *config.Config) **bool { return &c.Tokenizer.Markdown })},
	{"TOKENIZER_NORMALIZE", "tokenizer.normalize", "Unicode normalization: none, nfc, or nfkc",
		stringVar(func(c *config.Config, v string) { c.Tokenizer.Normalize = v })},
}

// LoadFromEnv applies the set HYPERSEQ_* variables to cfg. Empty variables
// are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, b := range envBindings {
		name := envVarPrefix + b.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := b.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the variable that sets a config key, or "".
func GetEnvVarName(field string) string {
	i := slices.IndexFunc(envBindings, func(b envBinding) bool { return b.field == field })
	if i < 0 {
		return ""
	}
	return envVarPrefix + envBindings[i].suffix
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, len(envBindings))
	for i, b := range envBindings {
		vars[i] = EnvVar{Name: envVarPrefix + b.suffix, Description: b.description}
	}
	return vars
}
