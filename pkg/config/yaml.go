package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation of written config files.
const yamlIndent = 2

// ToYAML encodes the file-backed keys of c. Runtime-only fields are omitted.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML decodes a config file. Unknown keys are rejected so typos do not
// pass silently; an empty document yields an empty Config.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Clone returns a deep copy of c; merging never aliases a source layer.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	for _, p := range []**bool{
		&out.Tokenizer.Lowercase,
		&out.Tokenizer.Markdown,
		&out.Ingest.Stream,
		&out.Ingest.FollowSymlinks,
	} {
		if *p != nil {
			*p = Bool(**p)
		}
	}
	out.Ingest.Extensions = slices.Clone(c.Ingest.Extensions)
	out.Ingest.Ignore = slices.Clone(c.Ingest.Ignore)
	return &out
}
