// Package hftokenizer counts tokens with a HuggingFace tokenizer.json, so
// chunk budgets match a locally hosted model's vocabulary.
package hftokenizer

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Counter implements chunker.TokenCounter.
type Counter struct {
	tok *tokenizer.Tokenizer
}

// FromFile loads a tokenizer.json.
func FromFile(path string) (*Counter, error) {
	tok, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("hftokenizer: load %s: %w", path, err)
	}
	return New(tok), nil
}

// New wraps an already loaded tokenizer.
func New(tok *tokenizer.Tokenizer) *Counter {
	return &Counter{tok: tok}
}

// Count returns the number of token ids for text, special tokens excluded.
// Text the tokenizer rejects counts as zero.
func (c *Counter) Count(text string) int {
	enc, err := c.tok.EncodeSingle(text, false)
	if err != nil {
		return 0
	}
	return len(enc.GetIds())
}
