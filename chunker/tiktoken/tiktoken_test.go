package tiktoken

import (
	"testing"

	"github.com/kbukum/lecturekit/chunker"
)

var _ chunker.TokenCounter = (*Counter)(nil)

func TestCounter(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Skipf("encoding unavailable offline: %v", err)
	}
	if got := c.Count("hello world"); got != 2 {
		t.Errorf("Count(hello world) = %d, want 2", got)
	}
	if got := c.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}

	chunks := chunker.Split("First sentence here. Second sentence here.", 4, c)
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %q", chunks)
	}
}
