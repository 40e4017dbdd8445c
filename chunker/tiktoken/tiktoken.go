// Package tiktoken counts tokens with OpenAI's BPE encodings.
package tiktoken

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultModel selects the encoding used by the summarizer's chat model.
const DefaultModel = "gpt-4"

// Counter implements chunker.TokenCounter.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// New loads the encoding for model, or DefaultModel when empty. The BPE
// ranks are downloaded and cached on first use unless TIKTOKEN_CACHE_DIR
// already holds them.
func New(model string) (*Counter, error) {
	if model == "" {
		model = DefaultModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tiktoken: encoding for %s: %w", model, err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
