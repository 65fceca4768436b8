// Package tokenize turns raw input into rune token sequences for the index.
//
// A Tokenizer classifies each input (plain text, markdown, binary), extracts
// plain text from markdown, applies unicode normalization and optional case
// folding, and cuts the result into units: one sequence per file or one per
// non-empty line. Stream produces the same tokens incrementally from an
// io.Reader for the streaming ingest path.
package tokenize
