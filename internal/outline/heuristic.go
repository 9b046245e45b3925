package outline

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docrank/internal/docreader"
)

// HeuristicLevel is assigned to every text-derived candidate: bare text gives
// no structural signal deeper than "some mid-level heading".
const HeuristicLevel = 2

// HeuristicOptions tunes the fallback extractor. Zero values select the
// defaults.
type HeuristicOptions struct {
	// MinLineLen is the trimmed length a line must exceed to qualify.
	MinLineLen int

	// MaxPerPage caps the number of candidates taken from one page.
	MaxPerPage int
}

func (o HeuristicOptions) withDefaults() HeuristicOptions {
	if o.MinLineLen <= 0 {
		o.MinLineLen = 5
	}
	if o.MaxPerPage <= 0 {
		o.MaxPerPage = 5
	}
	return o
}

// FromDocumentText proposes heading candidates from raw page text, for
// documents without a usable bookmark tree. Per page, the first MaxPerPage
// trimmed lines longer than MinLineLen become candidates at HeuristicLevel.
// Pages with no extractable text (or failing extraction) are skipped. This
// trades recall for simplicity: leading lines stand in for headings, with no
// layout or font analysis.
func FromDocumentText(doc docreader.Document, opts HeuristicOptions) []HeadingEntry {
	opts = opts.withDefaults()

	var entries []HeadingEntry
	for page := 1; page <= doc.NumPages(); page++ {
		text, err := doc.PageText(page)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		taken := 0
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if utf8.RuneCountInString(line) <= opts.MinLineLen {
				continue
			}
			entries = append(entries, HeadingEntry{
				Level: HeuristicLevel,
				Title: line,
				Page:  page,
			})
			taken++
			if taken >= opts.MaxPerPage {
				break
			}
		}
	}
	return entries
}
