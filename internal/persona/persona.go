// Package persona loads the optional persona descriptor and turns it into a
// single relevance query vector shared read-only across all documents.
package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/docrank/internal/embed"
)

// Profile is the persona's intent: free-text role and goal, their combined
// query form, and the query vector computed once per run.
type Profile struct {
	Role          string
	Goal          string
	CombinedQuery string

	// Keywords is the lowercase token union of role and goal. Not used for
	// ranking itself; kept for downstream filtering.
	Keywords []string

	QueryVector []float32
}

type descriptor struct {
	Role string `json:"role"`
	Goal string `json:"goal"`
}

// New builds a profile directly from role and goal strings, for callers that
// receive the persona inline rather than from a descriptor file.
func New(role, goal string) *Profile {
	return &Profile{
		Role:          role,
		Goal:          goal,
		CombinedQuery: strings.TrimSpace(role + " " + goal),
		Keywords:      keywordSet(role, goal),
	}
}

// Load reads a persona descriptor file. An absent file is a valid empty
// profile, not an error; a present but malformed file is.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Profile{Keywords: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}

	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse persona file: %w", err)
	}

	return New(d.Role, d.Goal), nil
}

// Build computes the query vector over the combined query. An empty query is
// embedded as-is: scores then reflect similarity to the model's empty-input
// embedding, with no special guard.
func (p *Profile) Build(ctx context.Context, provider embed.Provider) error {
	vec, err := provider.Embed(ctx, p.CombinedQuery)
	if err != nil {
		return fmt.Errorf("embed persona query: %w", err)
	}
	p.QueryVector = vec
	return nil
}

// MetadataRole returns the role for report metadata, "N/A" when absent.
func (p *Profile) MetadataRole() string {
	if p.Role == "" {
		return "N/A"
	}
	return p.Role
}

// MetadataGoal returns the goal for report metadata, "N/A" when absent.
func (p *Profile) MetadataGoal() string {
	if p.Goal == "" {
		return "N/A"
	}
	return p.Goal
}

// keywordSet deduplicates lowercase whitespace-split tokens, keeping first
// occurrence order.
func keywordSet(fields ...string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, f := range fields {
		for _, tok := range strings.Fields(strings.ToLower(f)) {
			if !seen[tok] {
				seen[tok] = true
				keywords = append(keywords, tok)
			}
		}
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords
}
