// Package chunker splits long transcripts into sentence-aligned chunks that
// fit a model's token budget.
package chunker

import (
	"strings"
	"unicode"
)

// DefaultMaxTokens is the chunk budget used when none is given.
const DefaultMaxTokens = 5000

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	Count(text string) int
}

// TokenCounterFunc adapts a function to TokenCounter.
type TokenCounterFunc func(text string) int

func (f TokenCounterFunc) Count(text string) int { return f(text) }

// WordCounter counts whitespace-separated words. It approximates model
// tokens well enough for tests and offline runs.
var WordCounter TokenCounter = TokenCounterFunc(func(text string) int {
	return len(strings.Fields(text))
})

// Chunker holds a budget and a counter.
type Chunker struct {
	MaxTokens int
	Counter   TokenCounter
}

// Split splits text with the chunker's settings.
func (c Chunker) Split(text string) []string {
	return Split(text, c.MaxTokens, c.Counter)
}

// Split packs whole sentences greedily into chunks whose summed sentence
// token counts stay within maxTokens. A sentence that alone exceeds the
// budget becomes its own chunk. Sentences within a chunk are joined by a
// single space. A maxTokens <= 0 uses DefaultMaxTokens and a nil counter
// uses WordCounter.
func Split(text string, maxTokens int, counter TokenCounter) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if counter == nil {
		counter = WordCounter
	}

	chunks := []string{}
	var current []string
	total := 0
	for _, sentence := range SplitSentences(text) {
		n := counter.Count(sentence)
		if len(current) > 0 && total+n > maxTokens {
			chunks = append(chunks, strings.Join(current, " "))
			current, total = nil, 0
		}
		current = append(current, sentence)
		total += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// SplitSentences breaks text after '.', '!' or '?' (plus any closing quotes
// or brackets) when followed by whitespace. Sentences are trimmed and empty
// ones dropped. Text without a terminator is one sentence.
func SplitSentences(text string) []string {
	runes := []rune(text)
	sentences := []string{}
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminator(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '”', '’':
		return true
	}
	return false
}
