package search

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/provider"
	"github.com/kbukum/lecturekit/transcription"
)

var vocabulary = []string{"cats", "are", "mammals", "the", "sun", "is", "a", "star", "what"}

// bagOfWords embeds text as word counts over a fixed vocabulary.
func bagOfWords(calls *int) provider.RequestResponse[[]string, [][]float32] {
	return provider.Func("bow", func(_ context.Context, texts []string) ([][]float32, error) {
		*calls++
		out := make([][]float32, len(texts))
		for i, text := range texts {
			v := make([]float32, len(vocabulary))
			for _, w := range strings.Fields(strings.ToLower(text)) {
				for j, term := range vocabulary {
					if w == term {
						v[j]++
					}
				}
			}
			out[i] = v
		}
		return out, nil
	})
}

func transcript(texts ...string) transcription.Transcript {
	t := make(transcription.Transcript, len(texts))
	for i, s := range texts {
		t[i] = transcription.Segment{Start: float64(i), End: float64(i + 1), Text: s}
	}
	return t
}

func TestBuildIndexAndSearch(t *testing.T) {
	var calls int
	e := bagOfWords(&calls)
	ctx := context.Background()

	idx, err := BuildIndex(ctx, e, transcript("cats are mammals", "the sun is a star"))
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if idx.Len() != 2 || idx.Sentences[1] != "the sun is a star" {
		t.Fatalf("unexpected index %+v", idx)
	}

	res, err := NewEngine(e).Search(ctx, "what is a star", idx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Matched || res.Sentence != "the sun is a star" || res.Index != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Score <= 0 || res.Score > 1 {
		t.Errorf("score out of range: %v", res.Score)
	}
}

func TestBuildIndex_EmptyTranscript(t *testing.T) {
	var calls int
	idx, err := BuildIndex(context.Background(), bagOfWords(&calls), nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx == nil || idx.Sentences == nil || idx.Embeddings == nil || idx.Len() != 0 {
		t.Errorf("expected a valid empty index, got %+v", idx)
	}
	if calls != 0 {
		t.Errorf("embedder should not be called, got %d calls", calls)
	}
}

func TestBuildIndex_Failure(t *testing.T) {
	e := provider.Func("broken", func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("model not loaded")
	})
	idx, err := BuildIndex(context.Background(), e, transcript("a"))
	if idx != nil {
		t.Errorf("expected nil index, got %+v", idx)
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeIndexingFailed || !appErr.Retryable {
		t.Fatalf("expected retryable INDEXING_FAILED, got %v", err)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	var calls int
	eng := NewEngine(bagOfWords(&calls))

	for _, idx := range []*Index{nil, {Sentences: []string{}, Embeddings: [][]float32{}}} {
		res, err := eng.Search(context.Background(), "anything", idx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Matched || res.Sentence != NoMatch || res.Index != -1 {
			t.Errorf("expected NoMatch sentinel, got %+v", res)
		}
	}
	if calls != 0 {
		t.Errorf("query should not be embedded for an empty index")
	}
}

func TestSearch_InvalidInput(t *testing.T) {
	var calls int
	eng := NewEngine(bagOfWords(&calls))
	idx := &Index{Sentences: []string{"a", "b"}, Embeddings: [][]float32{{1}}}

	tests := []struct {
		name  string
		query string
		idx   *Index
		code  apperrors.ErrorCode
	}{
		{"blank query", "   ", idx, apperrors.ErrCodeMissingField},
		{"misaligned index", "a", idx, apperrors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.Search(context.Background(), tc.query, tc.idx)
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestSearch_TieGoesToFirst(t *testing.T) {
	e := provider.Func("const", func(_ context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	})
	idx := &Index{Sentences: []string{"first", "second"}, Embeddings: [][]float32{{2, 0}, {3, 0}}}
	res, err := NewEngine(e).Search(context.Background(), "q", idx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Sentence != "first" {
		t.Errorf("expected the first maximum, got %q", res.Sentence)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero norm", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CosineSimilarity(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tc.want)
			}
		})
	}
}
