package docreader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// newDOCXDocument builds a single-page document from a .docx file. Paragraphs
// styled Heading1..Heading6 form the bookmark forest.
func newDOCXDocument(data []byte, filename string) (Document, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var hs headingStack
	var body strings.Builder

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level := paragraphHeadingLevel(para); level > 0 {
			hs.push(level, text, destPage(1))
		}
		appendBlock(&body, text)
	}

	return &flatDocument{
		name:      filename,
		pages:     []string{body.String()},
		bookmarks: hs.forest,
	}, nil
}

func paragraphHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	rest := strings.TrimPrefix(style, "heading")
	if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
