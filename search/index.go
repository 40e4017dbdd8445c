package search

import (
	"context"

	"github.com/kbukum/lecturekit/embedding"
	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/transcription"
)

// Index holds segment texts and their embeddings, aligned by position.
type Index struct {
	Sentences  []string    `json:"search_index"`
	Embeddings [][]float32 `json:"embeddings"`
}

// Len returns the number of indexed sentences.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Embeddings)
}

// BuildIndex embeds every segment of t. An empty transcript yields a valid
// empty index without calling the embedder. Any embedding failure returns a
// nil index and an INDEXING_FAILED error.
func BuildIndex(ctx context.Context, e embedding.Embedder, t transcription.Transcript) (*Index, error) {
	sentences := t.Texts()
	if len(sentences) == 0 {
		return &Index{Sentences: []string{}, Embeddings: [][]float32{}}, nil
	}
	vectors, err := embedding.Embed(ctx, e, sentences)
	if err != nil {
		return nil, apperrors.IndexingFailed(err)
	}
	return &Index{Sentences: sentences, Embeddings: vectors}, nil
}
