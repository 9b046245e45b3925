// Package embed provides the embedding capability used for relevance
// scoring: text in, fixed-length vector out. The model itself lives behind an
// HTTP endpoint; this package holds the client and the vector math.
package embed

import (
	"context"
	"math"
)

// Provider converts text to vectors. Constructed once at startup, warmed up
// via Ping before the first document, and held for the duration of the run.
type Provider interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector size the model produces.
	Dimensions() int

	// ModelName returns the embedding model identifier.
	ModelName() string

	// Ping verifies the backing service is reachable. Called once at
	// process start so model warm-up cost lands before any document work.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Cosine computes cosine similarity between two vectors, in [-1, 1].
// Mismatched lengths or zero-norm inputs yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Round4 rounds a score to four decimal places, the precision relevance
// scores are reported at.
func Round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
