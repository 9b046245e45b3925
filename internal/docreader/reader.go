// Package docreader adapts document files into a uniform read-only view:
// page count, per-page text, and an optional bookmark tree. Format-specific
// decoding stays behind the Document interface so the extraction pipeline
// never touches a parsing library directly.
package docreader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dest is an opaque bookmark target. Only the Document that produced it
// knows how to resolve it to a page number.
type Dest any

// BookmarkNode is one entry in a document's bookmark tree. A node with a
// non-nil Dest is a leaf pointing at a page; a node with children is a
// container. Source trees nest inconsistently, so both may co-occur on the
// same node and consumers must tolerate that.
type BookmarkNode struct {
	Title    string
	Dest     Dest
	Children []*BookmarkNode
}

// Document is a read-only view of an opened document.
type Document interface {
	// Name returns the file name the document was opened from.
	Name() string

	// NumPages returns the page count (at least 1 for non-empty documents).
	NumPages() int

	// PageText returns the extracted text of a 1-based page.
	PageText(page int) (string, error)

	// Bookmarks returns the embedded bookmark forest, or nil when the
	// document carries no navigation structure.
	Bookmarks() []*BookmarkNode

	// ResolveDest maps a bookmark target to a 1-based page number.
	ResolveDest(d Dest) (int, error)

	Close() error
}

// ErrUnresolvedDest reports a bookmark target that does not map to a page.
var ErrUnresolvedDest = errors.New("bookmark destination cannot be resolved")

// destPage is the common Dest implementation: an already-known 1-based page.
type destPage int

// SupportedExtensions lists file extensions this reader can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".md":   true,
	".txt":  true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".docx": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ForFile decodes a document from r, dispatching on the file extension.
func ForFile(r io.Reader, filename string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return newPDFDocument(data, filename)
	case ".md", ".markdown":
		return newMarkdownDocument(data, filename)
	case ".txt":
		return newTextDocument(data, filename)
	case ".csv":
		return newCSVDocument(data, filename)
	case ".html", ".htm":
		return newHTMLDocument(data, filename)
	case ".docx":
		return newDOCXDocument(data, filename)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// Open reads and decodes the document at path.
func Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ForFile(f, filepath.Base(path))
}

// Stem returns the file name without its extension, used as the document
// title in outline artifacts.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// flatDocument backs the formats that share a simple shape: a fixed name,
// pre-extracted page texts, and an optional heading forest.
type flatDocument struct {
	name      string
	pages     []string
	bookmarks []*BookmarkNode
}

func (d *flatDocument) Name() string               { return d.name }
func (d *flatDocument) NumPages() int              { return len(d.pages) }
func (d *flatDocument) Bookmarks() []*BookmarkNode { return d.bookmarks }
func (d *flatDocument) Close() error               { return nil }

func (d *flatDocument) PageText(page int) (string, error) {
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range (1..%d)", page, len(d.pages))
	}
	return d.pages[page-1], nil
}

func (d *flatDocument) ResolveDest(dest Dest) (int, error) {
	p, ok := dest.(destPage)
	if !ok || int(p) < 1 || int(p) > len(d.pages) {
		return 0, ErrUnresolvedDest
	}
	return int(p), nil
}

// headingStack assembles a BookmarkNode forest from a linear sequence of
// (level, title) headings, nesting each heading under the nearest preceding
// heading with a smaller level.
type headingStack struct {
	forest []*BookmarkNode
	stack  []struct {
		node  *BookmarkNode
		level int
	}
}

func (h *headingStack) push(level int, title string, dest Dest) {
	node := &BookmarkNode{Title: title, Dest: dest}
	for len(h.stack) > 0 && h.stack[len(h.stack)-1].level >= level {
		h.stack = h.stack[:len(h.stack)-1]
	}
	if len(h.stack) == 0 {
		h.forest = append(h.forest, node)
	} else {
		parent := h.stack[len(h.stack)-1].node
		parent.Children = append(parent.Children, node)
	}
	h.stack = append(h.stack, struct {
		node  *BookmarkNode
		level int
	}{node, level})
}
