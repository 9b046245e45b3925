// Package pipeline drives batch extraction over an input directory: one
// linear pass per document with a single branch point (bookmark outline
// present vs. heuristic fallback), results merged in input order.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/docreader"
	"github.com/dgallion1/docrank/internal/embed"
	"github.com/dgallion1/docrank/internal/lang"
	"github.com/dgallion1/docrank/internal/outline"
	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/rank"
	"github.com/dgallion1/docrank/internal/report"
)

// RankingFile is the name of the aggregated persona-mode artifact.
const RankingFile = "ranked_sections.json"

// Runner executes the extraction pipeline over a directory of documents.
type Runner struct {
	cfg        config.Config
	provider   embed.Provider
	identifier lang.Identifier
	stats      *embed.Stats
	log        *slog.Logger
}

// NewRunner wires a batch runner. provider may be nil for outline-only use;
// stats may be nil to skip latency reporting.
func NewRunner(cfg config.Config, provider embed.Provider, identifier lang.Identifier, stats *embed.Stats, log *slog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		provider:   provider,
		identifier: identifier,
		stats:      stats,
		log:        log,
	}
}

// RunOutline extracts per-document outline artifacts (simple mode). Missing
// input or zero matching documents is reported and treated as a clean end of
// the run, not a failure. Documents without an outline produce no artifact.
func (r *Runner) RunOutline(ctx context.Context) error {
	files, ok := r.listDocuments()
	if !ok {
		return nil
	}
	r.log.Info("processing documents", "count", len(files), "mode", "outline")

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.outlineOne(name)
	}
	return nil
}

func (r *Runner) outlineOne(name string) {
	doc, err := docreader.Open(filepath.Join(r.cfg.InputDir, name))
	if err != nil {
		r.log.Error("cannot read document, skipping", "document", name, "error", err)
		return
	}
	defer doc.Close()

	artifact := BuildOutline(doc)
	if len(artifact.Outline) == 0 {
		r.log.Info("no outline found", "document", name)
		return
	}

	out := filepath.Join(r.cfg.OutputDir, docreader.Stem(name)+".json")
	if err := report.WriteJSON(out, artifact); err != nil {
		r.log.Error("write outline artifact failed", "document", name, "error", err)
		return
	}
	r.log.Info("outline saved", "document", name, "headings", len(artifact.Outline), "path", out)
}

// BuildOutline walks the document's bookmark forest and returns the outline
// artifact. The outline slice is empty, never nil, when the document has no
// resolvable bookmarks.
func BuildOutline(doc docreader.Document) report.OutlineArtifact {
	entries := outline.Flatten(doc.Bookmarks(), doc.ResolveDest)
	artifact := report.OutlineArtifact{
		Title:   docreader.Stem(doc.Name()),
		Outline: make([]report.OutlineItem, 0, len(entries)),
	}
	for _, e := range entries {
		artifact.Outline = append(artifact.Outline, report.OutlineItem{
			Level: e.LevelTag(),
			Text:  e.Title,
			Page:  e.Page,
		})
	}
	return artifact
}

// RunRank produces the aggregated persona-ranking artifact. The embedding
// provider is warmed up once before any document; the processing timestamp
// is captured once at run start. Documents are scored concurrently up to
// WorkerCount, but the report keeps strict input-document order with
// relevance order inside each document only.
func (r *Runner) RunRank(ctx context.Context) error {
	files, ok := r.listDocuments()
	if !ok {
		return nil
	}

	if err := r.provider.Ping(ctx); err != nil {
		return err
	}
	r.log.Info("embedding provider ready", "model", r.provider.ModelName())

	profile, err := persona.Load(r.personaPath())
	if err != nil {
		return err
	}
	if err := profile.Build(ctx, r.provider); err != nil {
		return err
	}

	timestamp := time.Now().Format(time.RFC3339)
	scorer := rank.NewScorer(r.provider, profile.QueryVector)

	r.log.Info("processing documents", "count", len(files), "mode", "rank",
		"persona", profile.MetadataRole(), "workers", r.cfg.WorkerCount)

	perDoc := r.scoreAll(ctx, files, scorer)

	artifact := report.NewRankingArtifact(report.Metadata{
		InputDocuments:      files,
		Persona:             profile.MetadataRole(),
		JobToBeDone:         profile.MetadataGoal(),
		ProcessingTimestamp: timestamp,
	})
	for _, sections := range perDoc {
		artifact.ExtractedSections = append(artifact.ExtractedSections, sections...)
	}

	out := filepath.Join(r.cfg.OutputDir, RankingFile)
	if err := report.WriteJSON(out, artifact); err != nil {
		return err
	}
	r.log.Info("ranking saved", "sections", len(artifact.ExtractedSections), "path", out)

	if r.stats != nil {
		snap := r.stats.Snapshot()
		if snap.Count > 0 {
			r.log.Info("embedding latency",
				"calls", snap.Count, "avg_ms", snap.AvgMs, "p95_ms", snap.P95Ms)
		}
	}
	return nil
}

// scoreAll fans documents out to a bounded worker pool. Results land in a
// slice indexed by input position, so output order is input order regardless
// of completion order.
func (r *Runner) scoreAll(ctx context.Context, files []string, scorer *rank.Scorer) [][]report.Section {
	workers := r.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	perDoc := make([][]report.Section, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, name := range files {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()
			perDoc[i] = r.rankOne(ctx, name, scorer)
		}(i, name)
	}
	wg.Wait()
	return perDoc
}

// rankOne extracts, tags, scores, and sorts one document's sections. Any
// failure degrades to an empty result for that document; the batch goes on.
func (r *Runner) rankOne(ctx context.Context, name string, scorer *rank.Scorer) []report.Section {
	doc, err := docreader.Open(filepath.Join(r.cfg.InputDir, name))
	if err != nil {
		r.log.Error("cannot read document, skipping", "document", name, "error", err)
		return nil
	}
	defer doc.Close()

	opts := outline.HeuristicOptions{
		MinLineLen: r.cfg.HeuristicMinLineLen,
		MaxPerPage: r.cfg.HeuristicMaxPerPage,
	}
	return RankDocument(ctx, doc, scorer, r.identifier, opts, r.log)
}

// RankDocument extracts headings from an opened document, scores them
// against the persona query, and returns the sections in relevance order.
// Bookmark titles are normalized; when the document has no usable bookmark
// outline the per-page heading heuristic supplies the candidates instead.
func RankDocument(ctx context.Context, doc docreader.Document, scorer *rank.Scorer, id lang.Identifier, opts outline.HeuristicOptions, log *slog.Logger) []report.Section {
	entries := outline.Flatten(doc.Bookmarks(), doc.ResolveDest)
	if len(entries) > 0 {
		entries = outline.NormalizeEntries(entries)
	} else {
		entries = outline.FromDocumentText(doc, opts)
	}

	sections := rank.BuildSections(ctx, doc.Name(), entries, scorer, id, log)
	rank.SortSections(sections)
	return sections
}

// personaPath resolves the persona descriptor location.
func (r *Runner) personaPath() string {
	if r.cfg.PersonaFile != "" {
		return r.cfg.PersonaFile
	}
	return filepath.Join(r.cfg.InputDir, "persona.json")
}

// listDocuments returns the supported document names in directory-listing
// order. The second return is false when the run should end cleanly: input
// directory absent or no matching documents, both reported but not errors.
func (r *Runner) listDocuments() ([]string, bool) {
	dirEntries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		r.log.Info("input directory not found", "dir", r.cfg.InputDir)
		return nil, false
	}

	var files []string
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if !docreader.IsSupportedExtension(name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	if len(files) == 0 {
		r.log.Info("no supported documents in input directory", "dir", r.cfg.InputDir)
		return nil, false
	}
	return files, true
}
