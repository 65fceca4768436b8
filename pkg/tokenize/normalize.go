package tokenize

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalization forms accepted by NewNormalizer.
const (
	NormalizeNone = "none"
	NormalizeNFC  = "nfc"
	NormalizeNFKC = "nfkc"
)

// ErrUnknownNormalization is returned for an unsupported normalization name.
var ErrUnknownNormalization = errors.New("unknown normalization")

// Normalizer applies a unicode normalization form and optional lowercasing.
// The zero value passes text through unchanged. It is safe for concurrent use.
type Normalizer struct {
	form      *norm.Form
	lowercase bool
}

// NewNormalizer returns a Normalizer for the named form ("none", "nfc" or
// "nfkc", case-insensitive; empty means none).
func NewNormalizer(form string, lowercase bool) (Normalizer, error) {
	n := Normalizer{lowercase: lowercase}

	switch strings.ToLower(form) {
	case "", NormalizeNone:
	case NormalizeNFC:
		f := norm.NFC
		n.form = &f
	case NormalizeNFKC:
		f := norm.NFKC
		n.form = &f
	default:
		return Normalizer{}, fmt.Errorf("%w: %q", ErrUnknownNormalization, form)
	}
	return n, nil
}

// String applies the normalizer to s.
func (n Normalizer) String(s string) string {
	if n.form != nil {
		s = n.form.String(s)
	}
	if n.lowercase {
		s = cases.Lower(language.Und).String(s)
	}
	return s
}

// Reader wraps r so that everything read through it is normalized.
func (n Normalizer) Reader(r io.Reader) io.Reader {
	if n.form != nil {
		r = n.form.Reader(r)
	}
	if n.lowercase {
		// A Caser is stateful; each reader gets its own.
		r = transform.NewReader(r, cases.Lower(language.Und))
	}
	return r
}
