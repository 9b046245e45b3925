package api

import (
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docrank/internal/report"
)

func TestNewJobID(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 100; i++ {
		id := newJobID()
		if len(id) != 26 {
			t.Fatalf("expected 26 characters, got %d (%s)", len(id), id)
		}
		for _, c := range id {
			if !strings.ContainsRune(crockford, c) {
				t.Fatalf("character %q outside crockford alphabet in %s", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		// Timestamp prefix makes ids sort by creation time.
		if prev != "" && id[:10] < prev[:10] {
			t.Fatalf("timestamp prefix went backwards: %s then %s", prev, id)
		}
		prev = id
	}
}

func TestJobStorePutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &RankJob{ID: "abc", Status: StatusQueued, UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("abc"); got != job {
		t.Errorf("expected stored job back, got %v", got)
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
}

func TestJobStoreEviction(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	stale := &RankJob{ID: "old", Status: StatusCompleted, UpdatedAt: time.Now().Add(-time.Minute)}
	fresh := &RankJob{ID: "new", Status: StatusQueued, UpdatedAt: time.Now()}
	store.Put(stale)
	store.Put(fresh)

	if got := store.Get("old"); got != nil {
		t.Error("expected stale job evicted")
	}
	if got := store.Get("new"); got == nil {
		t.Error("expected fresh job retained")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 live job, got %d", store.Len())
	}
}

func TestJobLifecycle(t *testing.T) {
	job := &RankJob{ID: "j1", Status: StatusQueued, uploads: []upload{{filename: "a.md"}}}

	job.SetStatus(StatusExtracting)
	if snap := job.Snapshot(); snap.Status != StatusExtracting || snap.Result != nil {
		t.Errorf("unexpected snapshot mid-run: %+v", snap)
	}

	artifact := report.NewRankingArtifact(report.Metadata{Persona: "N/A"})
	job.Complete(artifact)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", snap.Status)
	}
	if snap.Result != artifact {
		t.Error("expected artifact in snapshot")
	}
	if job.uploads != nil {
		t.Error("expected uploads released on completion")
	}
}

func TestJobFail(t *testing.T) {
	job := &RankJob{ID: "j2", Status: StatusScoring}
	job.Fail("embedding service unreachable")

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected failed, got %s", snap.Status)
	}
	if snap.Error != "embedding service unreachable" {
		t.Errorf("unexpected error message %q", snap.Error)
	}
}
