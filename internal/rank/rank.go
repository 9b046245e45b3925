// Package rank scores heading entries against the persona query vector and
// orders each document's sections by relevance.
package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgallion1/docrank/internal/embed"
	"github.com/dgallion1/docrank/internal/lang"
	"github.com/dgallion1/docrank/internal/outline"
	"github.com/dgallion1/docrank/internal/report"
)

// Scorer computes persona relevance for section text. It holds no state
// beyond the provider and the run's query vector; Score is a pure function
// of its inputs.
type Scorer struct {
	provider embed.Provider
	query    []float32
}

func NewScorer(provider embed.Provider, queryVector []float32) *Scorer {
	return &Scorer{provider: provider, query: queryVector}
}

// Score embeds text and returns its cosine similarity to the persona query,
// rounded to four decimal places. Range [-1, 1], higher is more relevant.
func (s *Scorer) Score(ctx context.Context, text string) (float64, error) {
	vec, err := s.provider.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed section: %w", err)
	}
	return embed.Round4(embed.Cosine(vec, s.query)), nil
}

// BuildSections turns heading entries into report sections, attaching a
// language tag and a relevance score to each. An entry whose scoring call
// fails is skipped with a diagnostic; one bad heading never costs the rest
// of the document.
func BuildSections(ctx context.Context, docName string, entries []outline.HeadingEntry, scorer *Scorer, id lang.Identifier, log *slog.Logger) []report.Section {
	sections := make([]report.Section, 0, len(entries))
	for _, e := range entries {
		score, err := scorer.Score(ctx, e.Title)
		if err != nil {
			log.Warn("scoring failed, skipping heading",
				"document", docName, "title", e.Title, "error", err)
			continue
		}
		sections = append(sections, report.Section{
			Document:       docName,
			PageNumber:     e.Page,
			SectionTitle:   e.Title,
			ImportanceRank: score,
			Language:       lang.Tag(id, e.Title),
			Level:          e.LevelTag(),
		})
	}
	return sections
}

// SortSections orders sections by relevance descending. The sort is stable:
// equal scores keep their original document order.
func SortSections(sections []report.Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].ImportanceRank > sections[j].ImportanceRank
	})
}
