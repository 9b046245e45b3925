package embed

import (
	"sort"
	"sync"
	"time"
)

// StatsSnapshot is a point-in-time aggregate of embedding-call latencies.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats tracks embedding-call latencies within a rolling window. Safe for
// concurrent use by pipeline workers.
type Stats struct {
	mu     sync.Mutex
	at     []time.Time
	ms     []int64
	maxAge time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{maxAge: maxAge}
}

// Record adds one latency sample in milliseconds.
func (s *Stats) Record(durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.at = append(s.at, now)
	s.ms = append(s.ms, durationMs)
}

// Snapshot aggregates the samples currently inside the window.
func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)

	if len(s.ms) == 0 {
		return StatsSnapshot{}
	}

	values := make([]int64, len(s.ms))
	copy(values, s.ms)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	var sum int64
	for _, v := range values {
		sum += v
	}

	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := 0
	for i, ts := range s.at {
		if !ts.Before(cutoff) {
			s.at[keep] = ts
			s.ms[keep] = s.ms[i]
			keep++
		}
	}
	s.at = s.at[:keep]
	s.ms = s.ms[:keep]
}

// percentile interpolates linearly between the two nearest sorted samples.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := float64(len(sorted)-1) * pct / 100.0
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := idx - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[hi]-sorted[lo])
}
