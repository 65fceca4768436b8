// Package config defines core configuration types for hyperseq.
// These types are pure data structures with no dependencies on the loaders
// or the packages they configure.
package config

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText       OutputFormat = "text"
	FormatJSON       OutputFormat = "json"
	FormatPrometheus OutputFormat = "prometheus"
)

// Normalization forms for TokenizerConfig.Normalize.
const (
	NormalizeNone = "none"
	NormalizeNFC  = "nfc"
	NormalizeNFKC = "nfkc"
)

// Ingest units for IngestConfig.Unit.
const (
	UnitFile = "file"
	UnitLine = "line"
)

// Backup modes for BackupsConfig.Mode.
const (
	BackupSidecar = "sidecar"
	BackupNone    = "none"
)

// DefaultSnapshot is the snapshot path used when none is configured.
const DefaultSnapshot = ".hyperseq.snap"

// TokenizerConfig controls how input text becomes tokens.
type TokenizerConfig struct {
	// Normalize is the unicode normalization form: none, nfc or nfkc.
	Normalize string `yaml:"normalize,omitempty"`

	// Lowercase folds case before indexing.
	Lowercase *bool `yaml:"lowercase,omitempty"`

	// Markdown extracts plain text from markdown files.
	Markdown *bool `yaml:"markdown,omitempty"`
}

// IngestConfig controls file discovery and ingestion.
type IngestConfig struct {
	// Unit is "file" (one sequence per file) or "line" (one per line).
	Unit string `yaml:"unit,omitempty"`

	// Extensions lists ingested file extensions; "*" accepts all.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore contains glob patterns for files and directories to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Jobs is the number of files read concurrently (0 = auto).
	Jobs int `yaml:"jobs,omitempty"`

	// Stream feeds units through the incremental reader.
	Stream *bool `yaml:"stream,omitempty"`

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks *bool `yaml:"follow_symlinks,omitempty"`
}

// BackupsConfig controls snapshot backups.
type BackupsConfig struct {
	// Mode is "sidecar" (keep the previous snapshot as .bak) or "none".
	Mode string `yaml:"mode,omitempty"`
}

// Config is the root configuration structure for hyperseq.
type Config struct {
	// Snapshot is the path of the index snapshot file.
	Snapshot string `yaml:"snapshot,omitempty"`

	// LogLevel is the minimum log level: debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Tokenizer configures the token front-end.
	Tokenizer TokenizerConfig `yaml:"tokenizer,omitempty"`

	// Ingest configures discovery and ingestion.
	Ingest IngestConfig `yaml:"ingest,omitempty"`

	// Backups configures snapshot backups.
	Backups BackupsConfig `yaml:"backups,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report output format.
	Format OutputFormat `yaml:"-"`

	// Force overwrites a snapshot that changed since it was loaded.
	Force bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Snapshot: DefaultSnapshot,
		LogLevel: "info",
		Tokenizer: TokenizerConfig{
			Normalize: NormalizeNFC,
			Lowercase: Bool(false),
			Markdown:  Bool(true),
		},
		Ingest: IngestConfig{
			Unit:           UnitLine,
			Jobs:           0, // 0 means use NumCPU
			Stream:         Bool(false),
			FollowSymlinks: Bool(false),
		},
		Backups: BackupsConfig{Mode: BackupSidecar},
		Format:  FormatText,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// BoolValue returns the value of p, or false if p is nil.
func BoolValue(p *bool) bool {
	return p != nil && *p
}
