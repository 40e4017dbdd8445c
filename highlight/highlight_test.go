package highlight

import (
	"testing"

	"github.com/kbukum/lecturekit/transcription"
)

func TestExtract(t *testing.T) {
	tr := transcription.Transcript{
		{Start: 0, End: 2, Text: "intro to graphs"},
		{Start: 2, End: 4, Text: "sorting algorithms"},
		{Start: 4, End: 6, Text: "Graph traversal and Sorting"},
	}

	tests := []struct {
		name     string
		keywords []string
		want     []float64 // start times of matched segments
	}{
		{"single keyword", []string{"graph"}, []float64{0, 4}},
		{"case insensitive", []string{"SORTING"}, []float64{2, 4}},
		{"any keyword, no duplicates", []string{"graph", "sort"}, []float64{0, 2, 4}},
		{"no match", []string{"calculus"}, nil},
		{"keyword spaces are significant", []string{"graph "}, []float64{4}},
		{"trailing space matches word boundary", []string{"sorting "}, []float64{2}},
		{"blank keywords ignored", []string{"", "  "}, nil},
		{"no keywords", nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tr, tc.keywords)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d segments, want %d: %+v", len(got), len(tc.want), got)
			}
			for i, start := range tc.want {
				if got[i].Start != start {
					t.Errorf("segment %d start = %v, want %v", i, got[i].Start, start)
				}
			}
		})
	}
}

func TestExtract_FirstSegmentOnly(t *testing.T) {
	tr := transcription.Transcript{
		{Start: 0, End: 1, Text: "intro to graphs"},
		{Start: 1, End: 2, Text: "sorting algorithms"},
	}
	got := Extract(tr, []string{"graph"})
	if len(got) != 1 || got[0] != tr[0] {
		t.Errorf("expected only the first segment, got %+v", got)
	}
}
