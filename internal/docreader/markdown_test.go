package docreader

import (
	"strings"
	"testing"
)

func TestMarkdownDocument_HeadingForest(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	doc, err := newMarkdownDocument([]byte(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	forest := doc.Bookmarks()
	if len(forest) != 1 {
		t.Fatalf("expected 1 top-level bookmark (h1), got %d", len(forest))
	}

	h1 := forest[0]
	if h1.Title != "Title" {
		t.Errorf("expected h1 title %q, got %q", "Title", h1.Title)
	}
	if h1.Dest == nil {
		t.Error("expected h1 to carry a dest")
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	secA := h1.Children[0]
	if secA.Title != "Section A" {
		t.Errorf("expected %q, got %q", "Section A", secA.Title)
	}
	if len(secA.Children) != 1 || secA.Children[0].Title != "Subsection A1" {
		t.Fatalf("expected Subsection A1 under Section A, got %+v", secA.Children)
	}
	if h1.Children[1].Title != "Section B" {
		t.Errorf("expected %q, got %q", "Section B", h1.Children[1].Title)
	}
}

func TestMarkdownDocument_BodyText(t *testing.T) {
	input := "# Head\n\nFirst paragraph.\n\nSecond paragraph.\n"
	doc, err := newMarkdownDocument([]byte(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.NumPages() != 1 {
		t.Fatalf("expected 1 page, got %d", doc.NumPages())
	}
	text, err := doc.PageText(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Head", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected page text to contain %q, got %q", want, text)
		}
	}
}

func TestMarkdownDocument_MultiLineBlocks(t *testing.T) {
	input := "# Head\n\nLine one of a paragraph\nline two of the same paragraph.\n\n```\nfenced code line A\nfenced code line B\n```\n"
	doc, err := newMarkdownDocument([]byte(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, err := doc.PageText(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Line one of a paragraph",
		"line two of the same paragraph.",
		"fenced code line A",
		"fenced code line B",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected page text to contain %q, got %q", want, text)
		}
	}
}

func TestMarkdownDocument_NoHeadings(t *testing.T) {
	doc, err := newMarkdownDocument([]byte("Just some prose.\n\nMore prose.\n"), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Bookmarks()) != 0 {
		t.Errorf("expected empty bookmark forest, got %d nodes", len(doc.Bookmarks()))
	}
}

func TestHTMLDocument_HeadingForest(t *testing.T) {
	input := `<html><head><title>Ignored</title></head><body>
<h1>Overview</h1>
<p>Some intro.</p>
<h2>Details</h2>
<p>The details.</p>
<script>var x = 1;</script>
</body></html>`
	doc, err := newHTMLDocument([]byte(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	forest := doc.Bookmarks()
	if len(forest) != 1 {
		t.Fatalf("expected 1 top-level bookmark, got %d", len(forest))
	}
	if forest[0].Title != "Overview" {
		t.Errorf("expected %q, got %q", "Overview", forest[0].Title)
	}
	if len(forest[0].Children) != 1 || forest[0].Children[0].Title != "Details" {
		t.Fatalf("expected Details under Overview, got %+v", forest[0].Children)
	}

	text, _ := doc.PageText(1)
	if !strings.Contains(text, "Some intro.") {
		t.Errorf("expected body text to contain intro, got %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Errorf("script content leaked into body text: %q", text)
	}
}

func TestCSVDocument_Paging(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,dept\n")
	for i := 0; i < 45; i++ {
		sb.WriteString("alice,eng\n")
	}
	doc, err := newCSVDocument([]byte(sb.String()), "staff.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 45 rows at 20 per page -> 3 pages.
	if doc.NumPages() != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.NumPages())
	}
	text, err := doc.PageText(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "name: alice, dept: eng") {
		t.Errorf("expected header-labelled row, got %q", text)
	}
}
