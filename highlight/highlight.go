// Package highlight filters transcript segments by keyword.
package highlight

import (
	"strings"

	"github.com/kbukum/lecturekit/transcription"
)

// Extract returns the segments whose text contains any keyword,
// case-insensitively, in transcript order. Keywords match exactly as given,
// surrounding spaces included. Blank keywords are ignored, and the result is
// never nil.
func Extract(t transcription.Transcript, keywords []string) []transcription.Segment {
	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			terms = append(terms, strings.ToLower(k))
		}
	}

	out := []transcription.Segment{}
	if len(terms) == 0 {
		return out
	}
	for _, seg := range t {
		text := strings.ToLower(seg.Text)
		for _, term := range terms {
			if strings.Contains(text, term) {
				out = append(out, seg)
				break
			}
		}
	}
	return out
}
