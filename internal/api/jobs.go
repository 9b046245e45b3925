package api

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/report"
)

// JobStatus is the state of an asynchronous ranking job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusScoring    JobStatus = "scoring"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// upload is one document received with a ranking request, held in memory
// until the job's worker consumes it.
type upload struct {
	filename string
	data     []byte
}

// RankJob tracks one submitted ranking request through its lifecycle.
type RankJob struct {
	mu sync.Mutex

	ID        string
	Status    JobStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time

	uploads []upload
	role    string
	goal    string
	result  *report.RankingArtifact
}

// SetStatus moves the job to a new state.
func (j *RankJob) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a message for the poller.
func (j *RankJob) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// Complete stores the finished artifact and releases the uploaded bytes.
func (j *RankJob) Complete(artifact *report.RankingArtifact) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.result = artifact
	j.uploads = nil
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID     string                  `json:"job_id"`
	Status JobStatus               `json:"status"`
	Error  string                  `json:"error,omitempty"`
	Result *report.RankingArtifact `json:"result,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state. The result is present
// only once the job has completed.
func (j *RankJob) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Error:  j.Error,
		Result: j.result,
	}
}

// JobStore is a thread-safe in-memory job registry. Jobs whose last update
// is older than the TTL are evicted lazily on access.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*RankJob
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*RankJob),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *RankJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(time.Now())
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *RankJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(time.Now())
	return s.jobs[id]
}

// Len reports the number of live jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *JobStore) evictLocked(now time.Time) {
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// Job IDs are 26-character Crockford Base32 ULIDs: 48 bits of millisecond
// timestamp followed by 80 bits of randomness, so IDs sort by creation time.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	jobIDMu  sync.Mutex
	lastMs   uint64
	lastSeed uint16
)

func newJobID() string {
	jobIDMu.Lock()
	defer jobIDMu.Unlock()

	ms := uint64(time.Now().UnixMilli())
	if ms == lastMs {
		lastSeed++
	} else {
		lastMs = ms
		lastSeed = 0
	}

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ms<<16)
	rand.Read(b[6:])
	// Monotonic sequence keeps IDs unique within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeed)

	// 128 bits -> 26 base32 characters, two zero bits of left padding.
	out := make([]byte, 26)
	for i := range out {
		start := i*5 - 2
		var v int
		for j := 0; j < 5; j++ {
			v <<= 1
			pos := start + j
			if pos < 0 {
				continue
			}
			if b[pos/8]&(1<<(7-pos%8)) != 0 {
				v |= 1
			}
		}
		out[i] = crockford[v]
	}
	return string(out)
}
