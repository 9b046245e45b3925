package docreader

import "strings"

// newTextDocument treats form feeds as page breaks, matching the common
// convention of paginated plain-text exports. Plain text has no bookmark
// structure, so heading discovery is left to the heuristic fallback.
func newTextDocument(data []byte, filename string) (Document, error) {
	pages := strings.Split(string(data), "\f")
	if len(pages) == 0 {
		pages = []string{""}
	}
	return &flatDocument{name: filename, pages: pages}, nil
}
