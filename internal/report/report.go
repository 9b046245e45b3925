// Package report defines the JSON artifacts the pipeline produces and the
// writer that serializes them.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OutlineItem is one heading in a per-document outline artifact.
type OutlineItem struct {
	Level string `json:"level"` // "H1".."H3"
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// OutlineArtifact is the simple-mode output, one per input document.
type OutlineArtifact struct {
	Title   string        `json:"title"`
	Outline []OutlineItem `json:"outline"`
}

// Section is one ranked section in the aggregated artifact. Never mutated
// after creation.
type Section struct {
	Document       string  `json:"document"`
	PageNumber     int     `json:"page_number"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank float64 `json:"importance_rank"`
	Language       string  `json:"language"`
	Level          string  `json:"level"` // "H1".."H3"
}

// Metadata describes one ranking run.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// RankingArtifact is the persona-mode output, one per run.
// SubsectionAnalysis is a reserved extension slot for per-section sub-scoring
// and always serializes as an empty array.
type RankingArtifact struct {
	Metadata           Metadata  `json:"metadata"`
	ExtractedSections  []Section `json:"extracted_sections"`
	SubsectionAnalysis []any     `json:"subsection_analysis"`
}

// NewRankingArtifact returns an artifact with all slices non-nil so empty
// runs still serialize as arrays, not null.
func NewRankingArtifact(meta Metadata) *RankingArtifact {
	if meta.InputDocuments == nil {
		meta.InputDocuments = []string{}
	}
	return &RankingArtifact{
		Metadata:           meta,
		ExtractedSections:  []Section{},
		SubsectionAnalysis: []any{},
	}
}

// Marshal renders v as indented UTF-8 JSON with HTML escaping off, so
// non-ASCII titles survive byte-for-byte readable.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON serializes v to path, creating the parent directory if missing.
func WriteJSON(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
