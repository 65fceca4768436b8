package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

// FormatName identifies hyperseq snapshot files.
const FormatName = "hyperseq-snapshot"

// Version is the snapshot format version written by Encode.
const Version = 1

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrFormat indicates the file is not a well-formed snapshot.
	ErrFormat = errors.New("malformed snapshot")

	// ErrVersion indicates an unsupported format version.
	ErrVersion = errors.New("unsupported snapshot version")

	// ErrChecksum indicates the body does not match the header checksum.
	ErrChecksum = errors.New("snapshot checksum mismatch")
)

// Header is the first line of a snapshot file.
type Header struct {
	Format   string    `json:"format"`
	Version  int       `json:"version"`
	GraphID  uuid.UUID `json:"graph_id"`
	Saved    time.Time `json:"saved"`
	Checksum string    `json:"checksum"`
	Size     int       `json:"size"`
}

// body is the persisted graph. Patterns list child ids only; widths are
// recovered from the vertex table.
type body struct {
	Leaves   []leafEntry   `json:"leaves"`
	Vertices []vertexEntry `json:"vertices"`
	Splits   []splitEntry  `json:"splits,omitempty"`
}

type leafEntry struct {
	ID    hypergraph.VertexID `json:"id"`
	Token string              `json:"token"`
}

type vertexEntry struct {
	Width    int                     `json:"width"`
	Patterns [][]hypergraph.VertexID `json:"patterns,omitempty"`
}

type splitEntry struct {
	Vertex  hypergraph.VertexID `json:"vertex"`
	Offset  int                 `json:"offset"`
	Prefix  hypergraph.VertexID `json:"prefix"`
	Postfix hypergraph.VertexID `json:"postfix"`
}

// Encode writes g to w and returns the header it wrote.
func Encode(w io.Writer, g *hypergraph.Graph[rune], graphID uuid.UUID, saved time.Time) (Header, error) {
	payload, err := json.Marshal(fromDump(g.Export()))
	if err != nil {
		return Header{}, fmt.Errorf("encode snapshot body: %w", err)
	}

	header := Header{
		Format:   FormatName,
		Version:  Version,
		GraphID:  graphID,
		Saved:    saved.UTC(),
		Checksum: checksum(payload),
		Size:     len(payload),
	}
	line, err := json.Marshal(header)
	if err != nil {
		return Header{}, fmt.Errorf("encode snapshot header: %w", err)
	}

	for _, chunk := range [][]byte{line, {'\n'}, payload, {'\n'}} {
		if _, err := w.Write(chunk); err != nil {
			return Header{}, fmt.Errorf("write snapshot: %w", err)
		}
	}
	return header, nil
}

// Decode reads a snapshot from r, verifies it and restores the graph.
func Decode(r io.Reader, opts ...hypergraph.Option) (*hypergraph.Graph[rune], Header, error) {
	reader := bufio.NewReader(r)

	line, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, Header{}, fmt.Errorf("read snapshot header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, Header{}, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	if header.Format != FormatName {
		return nil, header, fmt.Errorf("%w: format %q", ErrFormat, header.Format)
	}
	if header.Version != Version {
		return nil, header, fmt.Errorf("%w: %d", ErrVersion, header.Version)
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, header, fmt.Errorf("read snapshot body: %w", err)
	}
	payload = bytes.TrimSuffix(payload, []byte{'\n'})
	if len(payload) != header.Size {
		return nil, header, fmt.Errorf("%w: body is %d bytes, header says %d", ErrChecksum, len(payload), header.Size)
	}
	if sum := checksum(payload); sum != header.Checksum {
		return nil, header, fmt.Errorf("%w: got %s, want %s", ErrChecksum, sum, header.Checksum)
	}

	var b body
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, header, fmt.Errorf("%w: body: %w", ErrFormat, err)
	}
	dump, err := b.dump()
	if err != nil {
		return nil, header, err
	}

	g, err := hypergraph.Restore(dump, opts...)
	if err != nil {
		return nil, header, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return g, header, nil
}

func checksum(payload []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(payload))
}

func fromDump(dump hypergraph.Dump[rune]) body {
	b := body{
		Leaves:   make([]leafEntry, len(dump.Leaves)),
		Vertices: make([]vertexEntry, len(dump.Vertices)),
		Splits:   make([]splitEntry, len(dump.Splits)),
	}
	for i, leaf := range dump.Leaves {
		b.Leaves[i] = leafEntry{ID: leaf.ID, Token: string(leaf.Token)}
	}
	for i, record := range dump.Vertices {
		entry := vertexEntry{Width: record.Width}
		for _, p := range record.Patterns {
			ids := make([]hypergraph.VertexID, len(p))
			for j, child := range p {
				ids[j] = child.ID
			}
			entry.Patterns = append(entry.Patterns, ids)
		}
		b.Vertices[i] = entry
	}
	for i, split := range dump.Splits {
		b.Splits[i] = splitEntry{
			Vertex:  split.Vertex,
			Offset:  split.Offset,
			Prefix:  split.Prefix.ID,
			Postfix: split.Postfix.ID,
		}
	}
	return b
}

func (b body) dump() (hypergraph.Dump[rune], error) {
	child := func(id hypergraph.VertexID) (hypergraph.Child, error) {
		if int(id) >= len(b.Vertices) {
			return hypergraph.Child{}, fmt.Errorf("%w: %w: %s", ErrFormat, hypergraph.ErrUnknownVertex, id)
		}
		return hypergraph.Child{ID: id, Width: b.Vertices[id].Width}, nil
	}

	dump := hypergraph.Dump[rune]{
		Leaves:   make([]hypergraph.LeafRecord[rune], len(b.Leaves)),
		Vertices: make([]hypergraph.VertexRecord, len(b.Vertices)),
		Splits:   make([]hypergraph.SplitRecord, len(b.Splits)),
	}

	for i, leaf := range b.Leaves {
		token := []rune(leaf.Token)
		if len(token) != 1 {
			return dump, fmt.Errorf("%w: leaf %s token %q is not a single rune", ErrFormat, leaf.ID, leaf.Token)
		}
		dump.Leaves[i] = hypergraph.LeafRecord[rune]{ID: leaf.ID, Token: token[0]}
	}

	for i, entry := range b.Vertices {
		record := hypergraph.VertexRecord{Width: entry.Width}
		for _, ids := range entry.Patterns {
			p := make(hypergraph.Pattern, len(ids))
			for j, id := range ids {
				c, err := child(id)
				if err != nil {
					return dump, err
				}
				p[j] = c
			}
			record.Patterns = append(record.Patterns, p)
		}
		dump.Vertices[i] = record
	}

	for i, split := range b.Splits {
		prefix, err := child(split.Prefix)
		if err != nil {
			return dump, err
		}
		postfix, err := child(split.Postfix)
		if err != nil {
			return dump, err
		}
		dump.Splits[i] = hypergraph.SplitRecord{
			Vertex:  split.Vertex,
			Offset:  split.Offset,
			Prefix:  prefix,
			Postfix: postfix,
		}
	}
	return dump, nil
}
