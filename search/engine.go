package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/kbukum/lecturekit/embedding"
	apperrors "github.com/kbukum/lecturekit/errors"
)

// NoMatch is returned as the sentence when the index is empty.
const NoMatch = "No matching results found."

// Result is the best match for a query.
type Result struct {
	Sentence string  `json:"result"`
	Score    float64 `json:"score"`
	// Index is the matched position, -1 when nothing matched.
	Index   int  `json:"index"`
	Matched bool `json:"matched"`
}

// Engine answers queries against an Index.
type Engine struct {
	Embedder embedding.Embedder
}

// NewEngine creates an Engine.
func NewEngine(e embedding.Embedder) *Engine {
	return &Engine{Embedder: e}
}

// Search returns the indexed sentence most similar to query. Ties go to the
// earliest sentence. No similarity threshold is applied.
func (e *Engine) Search(ctx context.Context, query string, idx *Index) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, apperrors.InputRequired("query")
	}
	if idx.Len() == 0 {
		return Result{Sentence: NoMatch, Index: -1}, nil
	}
	if len(idx.Sentences) != len(idx.Embeddings) {
		return Result{}, apperrors.InvalidInput("embeddings",
			fmt.Sprintf("%d sentences but %d embeddings", len(idx.Sentences), len(idx.Embeddings)))
	}

	vectors, err := embedding.Embed(ctx, e.Embedder, []string{query})
	if err != nil {
		return Result{}, err
	}
	q := vectors[0]

	best, bestScore := 0, math.Inf(-1)
	for i, v := range idx.Embeddings {
		if s := CosineSimilarity(q, v); s > bestScore {
			best, bestScore = i, s
		}
	}
	return Result{Sentence: idx.Sentences[best], Score: bestScore, Index: best, Matched: true}, nil
}

// CosineSimilarity returns the cosine of the angle between a and b. It is 0
// when the lengths differ or either vector has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
