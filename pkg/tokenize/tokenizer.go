package tokenize

import (
	"errors"
	"fmt"
	"strings"
)

// Unit names accepted by Options.Unit.
const (
	UnitFile = "file"
	UnitLine = "line"
)

// ErrUnknownUnit is returned for an unsupported unit name.
var ErrUnknownUnit = errors.New("unknown ingest unit")

// Options configures a Tokenizer.
type Options struct {
	// Normalize is the unicode normalization form: none, nfc or nfkc.
	Normalize string

	// Lowercase folds case before indexing.
	Lowercase bool

	// Markdown extracts plain text from markdown inputs.
	Markdown bool

	// Unit selects whether a file is one sequence or one per line.
	Unit string
}

// Tokenizer turns file content into token sequences.
type Tokenizer struct {
	normalizer Normalizer
	markdown   bool
	unit       string
}

// New validates opts and returns a Tokenizer.
func New(opts Options) (*Tokenizer, error) {
	normalizer, err := NewNormalizer(opts.Normalize, opts.Lowercase)
	if err != nil {
		return nil, err
	}

	unit := strings.ToLower(opts.Unit)
	switch unit {
	case "":
		unit = UnitFile
	case UnitFile, UnitLine:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, opts.Unit)
	}

	return &Tokenizer{normalizer: normalizer, markdown: opts.Markdown, unit: unit}, nil
}

// Normalizer returns the normalizer applied to every unit.
func (t *Tokenizer) Normalizer() Normalizer {
	return t.normalizer
}

// Unit returns the configured unit.
func (t *Tokenizer) Unit() string {
	return t.unit
}

// Units classifies content and returns its token sequences. Binary content
// and blank units yield nothing.
func (t *Tokenizer) Units(path string, content []byte) [][]rune {
	kind := Classify(path, content)
	if kind == KindBinary {
		return nil
	}

	text := string(content)
	if kind == KindMarkdown && t.markdown {
		text = MarkdownText(content)
	}
	text = t.normalizer.String(text)

	if t.unit == UnitFile {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return [][]rune{[]rune(text)}
	}

	var units [][]rune
	for _, line := range Lines(text) {
		units = append(units, []rune(line))
	}
	return units
}

// Text normalizes a single string, as used for queries.
func (t *Tokenizer) Text(s string) []rune {
	return []rune(t.normalizer.String(s))
}

// Lines splits text into lines, dropping line terminators and blank lines.
func Lines(text string) []string {
	var lines []string
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
