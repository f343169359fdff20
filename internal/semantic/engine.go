package semantic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultTimeout bounds a single embedding lookup on the search path.
const DefaultTimeout = 300 * time.Millisecond

// Engine scores the semantic similarity of two texts.
type Engine struct {
	embedder *Embedder
	timeout  time.Duration
}

func NewEngine(embedder *Embedder, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if embedder != nil {
		embedder.fetchTimeout = timeout
	}
	return &Engine{embedder: embedder, timeout: timeout}
}

// Available reports whether similarity can be computed at all. A nil engine is
// never available.
func (e *Engine) Available() bool {
	return e != nil && e.embedder != nil && e.embedder.Available()
}

// Embed fetches the vector for text under the engine timeout. Timeouts and
// provider failures both surface as ErrUnavailable.
func (e *Engine) Embed(ctx context.Context, text string) ([]float32, error) {
	if !e.Available() {
		return nil, ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vec, err := e.embedder.Embedding(ctx, text)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return vec, nil
}

// Similarity returns the cosine similarity of the two texts' embeddings.
func (e *Engine) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := e.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := e.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(va, vb), nil
}

// CosineSimilarity is 0 for vectors of different length or zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
