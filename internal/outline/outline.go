// Package outline derives a leveled heading sequence for a document, either
// by flattening its embedded bookmark tree or, when no tree exists, by
// heuristic inspection of raw page text.
package outline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/docrank/internal/docreader"
)

// MaxLevel caps outline depth. Bookmarks nested deeper than this collapse to
// the deepest recognized level instead of erroring.
const MaxLevel = 3

// HeadingEntry is one flattened heading: a capped structural level, the title
// text, and a 1-based page number. Immutable once created.
type HeadingEntry struct {
	Level int
	Title string
	Page  int
}

// LevelTag renders the level as "H1".."H3" for report output.
func (e HeadingEntry) LevelTag() string {
	return fmt.Sprintf("H%d", e.Level)
}

// Flatten walks a bookmark forest depth-first in document order and returns
// one HeadingEntry per resolvable leaf. A node with a target emits an entry
// at min(depth, MaxLevel); a node with children recurses at depth+1; nodes
// with both do both, in that order. Leaves whose target cannot be resolved
// are dropped without failing the traversal. Titles are taken verbatim;
// normalization is the caller's concern.
//
// An empty result signals "no outline available" and callers fall back to
// FromDocumentText.
func Flatten(forest []*docreader.BookmarkNode, resolve func(docreader.Dest) (int, error)) []HeadingEntry {
	var entries []HeadingEntry
	var walk func(nodes []*docreader.BookmarkNode, depth int)
	walk = func(nodes []*docreader.BookmarkNode, depth int) {
		for _, node := range nodes {
			if node == nil {
				continue
			}
			if node.Dest != nil {
				if page, err := resolve(node.Dest); err == nil && page >= 1 {
					entries = append(entries, HeadingEntry{
						Level: min(depth, MaxLevel),
						Title: node.Title,
						Page:  page,
					})
				}
			}
			if len(node.Children) > 0 {
				walk(node.Children, depth+1)
			}
		}
	}
	walk(forest, 1)
	return entries
}

// minTitleRunes is the shortest normalized title kept from the bookmark path.
const minTitleRunes = 2

// NormalizeEntries applies NFKC normalization and whitespace trimming to
// bookmark-derived titles and discards entries whose title ends up shorter
// than two runes. Applied before language tagging and scoring; the heuristic
// path enforces its own (stricter) length threshold upstream and skips this.
func NormalizeEntries(entries []HeadingEntry) []HeadingEntry {
	out := entries[:0]
	for _, e := range entries {
		title := strings.TrimSpace(norm.NFKC.String(e.Title))
		if utf8.RuneCountInString(title) < minTitleRunes {
			continue
		}
		e.Title = title
		out = append(out, e)
	}
	return out
}
