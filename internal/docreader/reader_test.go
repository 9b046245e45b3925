package docreader

import (
	"strings"
	"testing"
)

func TestForFile_UnsupportedExtension(t *testing.T) {
	_, err := ForFile(strings.NewReader("data"), "file.xyz")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"notes.md", true},
		{"page.html", true},
		{"data.csv", true},
		{"doc.docx", true},
		{"plain.txt", true},
		{"image.png", false},
		{"noext", false},
	}
	for _, tc := range tests {
		if got := IsSupportedExtension(tc.filename); got != tc.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("report.v2.pdf"); got != "report.v2" {
		t.Errorf("expected %q, got %q", "report.v2", got)
	}
	if got := Stem("noext"); got != "noext" {
		t.Errorf("expected %q, got %q", "noext", got)
	}
}

func TestTextDocument_FormFeedPages(t *testing.T) {
	doc, err := newTextDocument([]byte("page one\fpage two\fpage three"), "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.NumPages() != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.NumPages())
	}
	text, err := doc.PageText(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "page two" {
		t.Errorf("expected %q, got %q", "page two", text)
	}
	if doc.Bookmarks() != nil {
		t.Error("plain text should carry no bookmarks")
	}
	if _, err := doc.PageText(4); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestFlatDocument_ResolveDest(t *testing.T) {
	doc := &flatDocument{name: "d.txt", pages: []string{"a", "b"}}

	page, err := doc.ResolveDest(destPage(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 2 {
		t.Errorf("expected page 2, got %d", page)
	}

	if _, err := doc.ResolveDest(destPage(0)); err != ErrUnresolvedDest {
		t.Errorf("expected ErrUnresolvedDest, got %v", err)
	}
	if _, err := doc.ResolveDest(destPage(3)); err != ErrUnresolvedDest {
		t.Errorf("expected ErrUnresolvedDest, got %v", err)
	}
	if _, err := doc.ResolveDest("bogus"); err != ErrUnresolvedDest {
		t.Errorf("expected ErrUnresolvedDest for foreign dest, got %v", err)
	}
}

func TestHeadingStack_Nesting(t *testing.T) {
	var hs headingStack
	hs.push(1, "Chapter 1", destPage(1))
	hs.push(2, "Section 1.1", destPage(1))
	hs.push(2, "Section 1.2", destPage(1))
	hs.push(1, "Chapter 2", destPage(1))

	if len(hs.forest) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(hs.forest))
	}
	ch1 := hs.forest[0]
	if ch1.Title != "Chapter 1" {
		t.Errorf("expected %q, got %q", "Chapter 1", ch1.Title)
	}
	if len(ch1.Children) != 2 {
		t.Fatalf("expected 2 children under Chapter 1, got %d", len(ch1.Children))
	}
	if ch1.Children[1].Title != "Section 1.2" {
		t.Errorf("expected %q, got %q", "Section 1.2", ch1.Children[1].Title)
	}
	if hs.forest[1].Title != "Chapter 2" {
		t.Errorf("expected %q, got %q", "Chapter 2", hs.forest[1].Title)
	}
}

func TestHeadingStack_SkippedLevel(t *testing.T) {
	// h1 followed directly by h3: the h3 still nests under the h1.
	var hs headingStack
	hs.push(1, "Top", destPage(1))
	hs.push(3, "Deep", destPage(1))

	if len(hs.forest) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(hs.forest))
	}
	if len(hs.forest[0].Children) != 1 || hs.forest[0].Children[0].Title != "Deep" {
		t.Fatalf("expected Deep nested under Top, got %+v", hs.forest[0])
	}
}
