package docreader

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// newMarkdownDocument builds a single-page document whose bookmark forest
// mirrors the heading structure of the markdown source. Markdown has no
// pagination, so every heading targets page 1.
func newMarkdownDocument(data []byte, filename string) (Document, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	var hs headingStack
	var body strings.Builder

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := strings.TrimSpace(string(h.Text(data)))
			if title != "" {
				hs.push(h.Level, title, destPage(1))
			}
			appendBlock(&body, title)
			continue
		}
		appendBlock(&body, blockText(n, data))
	}

	return &flatDocument{
		name:      filename,
		pages:     []string{body.String()},
		bookmarks: hs.forest,
	}, nil
}

func appendBlock(sb *strings.Builder, t string) {
	if t == "" {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(t)
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(blockText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
