package tokenize

import (
	"path/filepath"
	"slices"

	"github.com/go-enry/go-enry/v2"
)

// Kind classifies an input file.
type Kind int

const (
	// KindText is plain text, indexed as is.
	KindText Kind = iota

	// KindMarkdown is a markdown document whose text can be extracted.
	KindMarkdown

	// KindBinary is content that is not indexed.
	KindBinary
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindBinary:
		return "binary"
	default:
		return "text"
	}
}

const markdownLanguage = "Markdown"

// Classify determines the kind of a file from its name and content.
func Classify(path string, content []byte) Kind {
	if enry.IsBinary(content) {
		return KindBinary
	}
	name := filepath.Base(path)
	if slices.Contains(enry.GetLanguagesByExtension(name, content, nil), markdownLanguage) ||
		enry.GetLanguage(name, content) == markdownLanguage {
		return KindMarkdown
	}
	return KindText
}
