package tokenize

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownText extracts the readable text of a markdown document. Inline
// markup is dropped, soft line breaks become spaces, and each block ends up
// on its own line. Code blocks are kept verbatim.
func MarkdownText(source []byte) string {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	var b textBuilder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
			return ast.WalkContinue, nil

		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
			return ast.WalkContinue, nil

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := range lines.Len() {
					segment := lines.At(i)
					b.Write(segment.Value(source))
				}
				b.EndBlock()
			}
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}

		if !entering && n.Type() == ast.TypeBlock {
			b.EndBlock()
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// textBuilder collapses consecutive block ends into one newline.
type textBuilder struct {
	strings.Builder
}

func (b *textBuilder) EndBlock() {
	s := b.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	b.WriteByte('\n')
}
