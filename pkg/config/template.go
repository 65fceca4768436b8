package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every key with its default value. If false, generates a
	// minimal template with most keys commented out.
	Full bool

	// Snapshot overrides the snapshot path written to the template.
	Snapshot string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n# Index snapshot file\n")
	fmt.Fprintf(&buf, "snapshot: %s\n", snapshotPath(opts))
	buf.WriteString(`
# Minimum log level: debug, info, warn, or error
# log_level: info

# Token front-end
# tokenizer:
#   normalize: nfc      # none, nfc, or nfkc
#   lowercase: false
#   markdown: true      # index the text of markdown files, not the markup

# Ingestion
# ingest:
#   unit: line          # file or line
#   extensions: [".txt", ".md", ".markdown"]
#   ignore:
#     - "build/**"
#   jobs: 0             # 0 = auto
#   stream: false

# Snapshot backups: sidecar or none
# backups:
#   mode: sidecar
`)

	return buf.Bytes()
}

// generateFullTemplate serializes the defaults with a comment per section.
func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	cfg.Snapshot = snapshotPath(opts)
	cfg.Ingest.Extensions = []string{".txt", ".md", ".markdown"}

	body, err := cfg.ToYAML()
	if err != nil {
		return nil, err
	}

	comments := map[string]string{
		"tokenizer:": "# Token front-end",
		"ingest:":    "# Ingestion",
		"backups:":   "# Snapshot backups",
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# All keys with their default values.\n\n")
	for line := range strings.Lines(string(body)) {
		if comment, ok := comments[strings.TrimSpace(line)]; ok {
			buf.WriteString("\n" + comment + "\n")
		}
		buf.WriteString(line)
	}
	return buf.Bytes(), nil
}

func snapshotPath(opts TemplateOptions) string {
	if opts.Snapshot != "" {
		return opts.Snapshot
	}
	return DefaultSnapshot
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# hyperseq configuration
# See: https://github.com/yaklabco/hyperseq`
}
