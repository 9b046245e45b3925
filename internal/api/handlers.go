package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docrank/internal/docreader"
	"github.com/dgallion1/docrank/internal/outline"
	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/dgallion1/docrank/internal/rank"
	"github.com/dgallion1/docrank/internal/report"
	"github.com/go-chi/chi/v5"
)

// handleOutline extracts the bookmark outline of a single uploaded document
// and returns the artifact synchronously.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !docreader.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	doc, err := docreader.ForFile(io.LimitReader(file, s.cfg.MaxUploadBytes+1), filename)
	if err != nil {
		jsonError(w, "cannot read document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	defer doc.Close()

	artifact := pipeline.BuildOutline(doc)
	if len(artifact.Outline) == 0 {
		jsonError(w, "no_outline", http.StatusNotFound)
		return
	}
	s.writeArtifact(w, http.StatusOK, artifact)
}

// handleRank accepts one or more documents plus an optional inline persona
// and queues an asynchronous ranking job. The response carries the job ID and
// a poll URL; the artifact appears on the status endpoint once scoring ends.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var uploads []upload
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !docreader.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+filename, http.StatusBadRequest)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		uploads = append(uploads, upload{filename: filename, data: data})
	}

	now := time.Now()
	job := &RankJob{
		ID:        newJobID(),
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		uploads:   uploads,
		role:      r.FormValue("role"),
		goal:      r.FormValue("goal"),
	}
	s.jobs.Put(job)

	go s.runRankJob(job)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": "/api/rank/" + job.ID,
	})
}

// runRankJob drives one job through extraction and scoring. Unreadable
// documents are skipped; only a persona embedding failure fails the job.
func (s *Server) runRankJob(job *RankJob) {
	ctx := context.Background()
	timestamp := time.Now().Format(time.RFC3339)

	profile := persona.New(job.role, job.goal)
	if err := profile.Build(ctx, s.provider); err != nil {
		s.log.Error("persona embedding failed", "job_id", job.ID, "error", err)
		job.Fail("persona embedding failed: " + err.Error())
		return
	}
	scorer := rank.NewScorer(s.provider, profile.QueryVector)

	opts := outline.HeuristicOptions{
		MinLineLen: s.cfg.HeuristicMinLineLen,
		MaxPerPage: s.cfg.HeuristicMaxPerPage,
	}

	job.SetStatus(StatusExtracting)
	names := make([]string, 0, len(job.uploads))
	docs := make([]docreader.Document, 0, len(job.uploads))
	for _, u := range job.uploads {
		doc, err := docreader.ForFile(bytes.NewReader(u.data), u.filename)
		if err != nil {
			s.log.Error("cannot read document, skipping", "job_id", job.ID, "document", u.filename, "error", err)
			names = append(names, u.filename)
			continue
		}
		names = append(names, u.filename)
		docs = append(docs, doc)
	}

	job.SetStatus(StatusScoring)
	artifact := report.NewRankingArtifact(report.Metadata{
		InputDocuments:      names,
		Persona:             profile.MetadataRole(),
		JobToBeDone:         profile.MetadataGoal(),
		ProcessingTimestamp: timestamp,
	})
	for _, doc := range docs {
		sections := pipeline.RankDocument(ctx, doc, scorer, s.identifier, opts, s.log)
		artifact.ExtractedSections = append(artifact.ExtractedSections, sections...)
		doc.Close()
	}

	job.Complete(artifact)
	s.log.Info("ranking job finished",
		"job_id", job.ID, "documents", len(names), "sections", len(artifact.ExtractedSections))
}

// handleRankStatus reports job state, including the artifact on completion.
func (s *Server) handleRankStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.jobs.Get(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	s.writeArtifact(w, http.StatusOK, job.Snapshot())
}

// handleEmbeddingStats reports rolling embedding latency.
func (s *Server) handleEmbeddingStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "embedding stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.provider.ModelName(),
		"stats": s.stats.Snapshot(),
	})
}

// writeArtifact sends v as indented JSON with HTML escaping off, the same
// shape the batch mode writes to disk.
func (s *Server) writeArtifact(w http.ResponseWriter, code int, v any) {
	data, err := report.Marshal(v)
	if err != nil {
		jsonError(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
