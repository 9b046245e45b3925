package docreader

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// newHTMLDocument builds a single-page document whose bookmark forest comes
// from h1..h6 tags.
func newHTMLDocument(data []byte, filename string) (Document, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var hs headingStack
	var body strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				title := nodeText(n)
				if title != "" {
					hs.push(level, title, destPage(1))
					appendBlock(&body, title)
				}
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				appendBlock(&body, nodeText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if b := findElement(doc, "body"); b != nil {
		walk(b)
	} else {
		walk(doc)
	}

	return &flatDocument{
		name:      filename,
		pages:     []string{body.String()},
		bookmarks: hs.forest,
	}, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
