package pretty

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

// maxTextRunes bounds how much of a vertex's text is shown inline.
const maxTextRunes = 60

// VertexView is a vertex resolved for display, with the text of every
// child and parent filled in.
type VertexView struct {
	ID       hypergraph.VertexID `json:"id"`
	Width    int                 `json:"width"`
	Text     string              `json:"text"`
	Leaf     bool                `json:"leaf"`
	Patterns []PatternView       `json:"patterns,omitempty"`
	Parents  []ParentView        `json:"parents,omitempty"`

	// MoreParents counts parent occurrences left out of Parents.
	MoreParents int `json:"more_parents,omitempty"`
}

// PatternView is one decomposition of a vertex.
type PatternView struct {
	ID       hypergraph.PatternID `json:"id"`
	Children []ChildView          `json:"children"`
}

// ChildView is one child of a pattern.
type ChildView struct {
	ID    hypergraph.VertexID `json:"id"`
	Width int                 `json:"width"`
	Text  string              `json:"text"`
}

// ParentView is one place the vertex occurs inside a larger vertex.
type ParentView struct {
	Parent  hypergraph.VertexID  `json:"parent"`
	Pattern hypergraph.PatternID `json:"pattern"`
	Index   int                  `json:"index"`
	Text    string               `json:"text"`
}

// Describe resolves vertex id for display. At most maxParents parent
// occurrences are resolved; zero or less means all of them.
func Describe(g *hypergraph.Graph[rune], id hypergraph.VertexID, maxParents int) (VertexView, error) {
	data, err := g.Vertex(id)
	if err != nil {
		return VertexView{}, err
	}
	text, err := g.Tokens(id)
	if err != nil {
		return VertexView{}, err
	}

	view := VertexView{
		ID:    data.ID,
		Width: data.Width,
		Text:  string(text),
		Leaf:  data.IsLeaf(),
	}

	for pid, pattern := range data.Patterns {
		pv := PatternView{ID: hypergraph.PatternID(pid)}
		for _, child := range pattern {
			childText, err := g.Tokens(child.ID)
			if err != nil {
				return VertexView{}, err
			}
			pv.Children = append(pv.Children, ChildView{ID: child.ID, Width: child.Width, Text: string(childText)})
		}
		view.Patterns = append(view.Patterns, pv)
	}

	parents := data.Parents
	if maxParents > 0 && len(parents) > maxParents {
		view.MoreParents = len(parents) - maxParents
		parents = parents[:maxParents]
	}
	for _, occ := range parents {
		parentText, err := g.Tokens(occ.Parent)
		if err != nil {
			return VertexView{}, err
		}
		view.Parents = append(view.Parents, ParentView{
			Parent:  occ.Parent,
			Pattern: occ.Pattern,
			Index:   occ.Index,
			Text:    string(parentText),
		})
	}

	return view, nil
}

// FormatVertex renders a resolved vertex with its patterns and parents.
func (s *Styles) FormatVertex(view VertexView) string {
	var builder strings.Builder

	builder.WriteString(s.VertexID.Render(view.ID.String()))
	builder.WriteString(" ")
	builder.WriteString(s.Text.Render(quoteText(view.Text)))
	builder.WriteString(" ")
	builder.WriteString(s.Width.Render(fmt.Sprintf("width %d", view.Width)))
	if view.Leaf {
		builder.WriteString(" " + s.Leaf.Render("leaf"))
	}
	builder.WriteString("\n")

	if len(view.Patterns) > 0 {
		builder.WriteString(s.Title.Render("  patterns:"))
		builder.WriteString("\n")
		for _, pattern := range view.Patterns {
			parts := make([]string, len(pattern.Children))
			for i, child := range pattern.Children {
				parts[i] = s.VertexID.Render(child.ID.String()) + " " + s.Text.Render(quoteText(child.Text))
			}
			builder.WriteString(fmt.Sprintf("    %s  ", s.Pattern.Render(fmt.Sprintf("p%d", pattern.ID))))
			builder.WriteString(strings.Join(parts, s.Dim.Render(" + ")))
			builder.WriteString("\n")
		}
	}

	if len(view.Parents) > 0 {
		builder.WriteString(s.Title.Render("  parents:"))
		builder.WriteString("\n")
		for _, parent := range view.Parents {
			builder.WriteString(fmt.Sprintf("    %s %s  %s\n",
				s.VertexID.Render(parent.Parent.String()),
				s.Pattern.Render(fmt.Sprintf("p%d[%d]", parent.Pattern, parent.Index)),
				s.Text.Render(quoteText(parent.Text))))
		}
		if view.MoreParents > 0 {
			builder.WriteString(s.Dim.Render(fmt.Sprintf("    ... %d more", view.MoreParents)))
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// FormatQueryHit renders a query that resolved to a vertex.
func (s *Styles) FormatQueryHit(query string, info hypergraph.VertexInfo[rune]) string {
	return fmt.Sprintf("%s  %s  %s\n",
		s.Text.Render(quoteText(query)),
		s.VertexID.Render(info.ID.String()),
		s.Width.Render(fmt.Sprintf("width %d", info.Width)))
}

// FormatQueryMiss renders a query that is not indexed.
func (s *Styles) FormatQueryMiss(query string, err error) string {
	reason := "not found"
	switch {
	case errors.Is(err, hypergraph.ErrUnknownToken):
		reason = "not found (unknown token)"
	case errors.Is(err, hypergraph.ErrEmptyInput):
		reason = "empty query"
	}
	return fmt.Sprintf("%s  %s\n", s.Text.Render(quoteText(query)), s.Failure.Render(reason))
}

// quoteText quotes s for single-line display, shortening long text.
func quoteText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTextRunes {
		return strconv.Quote(s)
	}
	return strconv.Quote(string(runes[:maxTextRunes-3])) + "..."
}
