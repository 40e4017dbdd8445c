package summarizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/lecturekit/llm"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/provider"
	"github.com/kbukum/lecturekit/resilience"
)

var fastRetry = resilience.RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond, BackoffFactor: 1}

// scriptedCompleter answers by system prompt. Chunk calls echo their input.
type scriptedCompleter struct {
	mu       sync.Mutex
	calls    map[string]int
	inputs   map[string][]string
	fail     func(system, user string, call int) error
	delay    time.Duration
	delayFor func(user string) time.Duration
	finished []string
	inflight atomic.Int32
	peak     atomic.Int32
}

func newScripted() *scriptedCompleter {
	return &scriptedCompleter{calls: map[string]int{}, inputs: map[string][]string{}}
}

func (s *scriptedCompleter) completer() llm.Completer {
	return provider.Func("scripted", func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		n := s.inflight.Add(1)
		defer s.inflight.Add(-1)
		for {
			peak := s.peak.Load()
			if n <= peak || s.peak.CompareAndSwap(peak, n) {
				break
			}
		}

		user := req.Messages[0].Content
		s.mu.Lock()
		s.calls[req.SystemPrompt]++
		call := s.calls[req.SystemPrompt]
		s.inputs[req.SystemPrompt] = append(s.inputs[req.SystemPrompt], user)
		s.mu.Unlock()

		delay := s.delay
		if s.delayFor != nil {
			delay = s.delayFor(user)
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return llm.CompletionResponse{}, ctx.Err()
			}
		}
		if req.SystemPrompt == ChunkPrompt {
			s.mu.Lock()
			s.finished = append(s.finished, user)
			s.mu.Unlock()
		}
		if s.fail != nil {
			if err := s.fail(req.SystemPrompt, user, call); err != nil {
				return llm.CompletionResponse{}, err
			}
		}

		switch req.SystemPrompt {
		case ChunkPrompt:
			return llm.CompletionResponse{Content: " <" + user + "> "}, nil
		case DetailedPrompt:
			return llm.CompletionResponse{Content: "detailed of " + user}, nil
		default:
			return llm.CompletionResponse{Content: "short of " + user}, nil
		}
	})
}

func (s *scriptedCompleter) count(system string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[system]
}

func TestSummarize_OrderAndJoin(t *testing.T) {
	sc := newScripted()
	sc.delay = 2 * time.Millisecond
	s := New(sc.completer(), WithMaxTokens(2), WithConcurrency(3), WithRetry(fastRetry), WithLogger(logger.NewNop()))

	got, err := s.Summarize(context.Background(), "a b. c d. e f. g h. i j.")
	if err != nil {
		t.Fatal(err)
	}

	wantCombined := "<a b.> <c d.> <e f.> <g h.> <i j.>"
	if got.Detailed != "detailed of "+wantCombined {
		t.Errorf("Detailed = %q", got.Detailed)
	}
	if got.Short != "short of "+wantCombined {
		t.Errorf("Short = %q", got.Short)
	}
	if sc.count(ChunkPrompt) != 5 {
		t.Errorf("expected 5 chunk calls, got %d", sc.count(ChunkPrompt))
	}
	if peak := sc.peak.Load(); peak > 3 {
		t.Errorf("expected at most 3 concurrent calls, saw %d", peak)
	}
}

func TestSummarize_OrderIndependentOfCompletion(t *testing.T) {
	sc := newScripted()
	delays := map[string]time.Duration{"a b.": 60 * time.Millisecond, "c d.": 30 * time.Millisecond}
	sc.delayFor = func(user string) time.Duration { return delays[user] }
	s := New(sc.completer(), WithMaxTokens(2), WithConcurrency(3), WithRetry(fastRetry), WithLogger(logger.NewNop()))

	got, err := s.Summarize(context.Background(), "a b. c d. e f.")
	if err != nil {
		t.Fatal(err)
	}

	sc.mu.Lock()
	finished := append([]string(nil), sc.finished...)
	sc.mu.Unlock()
	if len(finished) != 3 || finished[0] != "e f." || finished[2] != "a b." {
		t.Fatalf("expected chunks to finish in reverse order, got %q", finished)
	}
	if want := "short of <a b.> <c d.> <e f.>"; got.Short != want {
		t.Errorf("Short = %q, want %q", got.Short, want)
	}
}

func TestSummarize_DetailedFailureKeepsShort(t *testing.T) {
	sc := newScripted()
	sc.fail = func(system, _ string, _ int) error {
		if system == DetailedPrompt {
			return errors.New("model overloaded")
		}
		return nil
	}
	s := New(sc.completer(), WithRetry(fastRetry), WithLogger(logger.NewNop()))

	got, err := s.Summarize(context.Background(), "Graphs have vertices. Edges join them.")
	if err != nil {
		t.Fatal(err)
	}
	if got.Detailed != DetailedUnavailable {
		t.Errorf("expected detailed placeholder, got %q", got.Detailed)
	}
	if !strings.HasPrefix(got.Short, "short of ") {
		t.Errorf("expected a real short summary, got %q", got.Short)
	}
	if sc.count(DetailedPrompt) != fastRetry.MaxAttempts {
		t.Errorf("expected detailed pass retried %d times, got %d", fastRetry.MaxAttempts, sc.count(DetailedPrompt))
	}
}

func TestSummarize_BothFinalPassesFail(t *testing.T) {
	sc := newScripted()
	sc.fail = func(system, _ string, _ int) error {
		if system != ChunkPrompt {
			return errors.New("down")
		}
		return nil
	}
	s := New(sc.completer(), WithRetry(fastRetry), WithLogger(logger.NewNop()))

	got, err := s.Summarize(context.Background(), "One. Two.")
	if err != nil {
		t.Fatal(err)
	}
	if got.Short != ShortUnavailable || got.Detailed != DetailedUnavailable {
		t.Errorf("expected both placeholders, got %+v", got)
	}
}

func TestSummarize_FailedChunkIsEmpty(t *testing.T) {
	sc := newScripted()
	sc.fail = func(system, user string, _ int) error {
		if system == ChunkPrompt && strings.HasPrefix(user, "bad") {
			return errors.New("content filter")
		}
		return nil
	}
	s := New(sc.completer(), WithMaxTokens(2), WithRetry(fastRetry), WithLogger(logger.NewNop()))

	got, err := s.Summarize(context.Background(), "bad chunk. good chunk.")
	if err != nil {
		t.Fatal(err)
	}
	if got.Short != "short of  <good chunk.>" {
		t.Errorf("expected empty first chunk summary, got %q", got.Short)
	}
}

func TestSummarize_TransientFailureRetried(t *testing.T) {
	sc := newScripted()
	sc.fail = func(system, _ string, call int) error {
		if system == ShortPrompt && call == 1 {
			return errors.New("502 bad gateway")
		}
		return nil
	}
	s := New(sc.completer(), WithRetry(fastRetry), WithLogger(logger.NewNop()))

	got, _ := s.Summarize(context.Background(), "Only sentence.")
	if got.Short == ShortUnavailable {
		t.Error("expected retry to recover the short pass")
	}
	if sc.count(ShortPrompt) != 2 {
		t.Errorf("expected 2 short calls, got %d", sc.count(ShortPrompt))
	}
}

func TestSummarize_CallTimeout(t *testing.T) {
	sc := newScripted()
	sc.delay = time.Second
	s := New(sc.completer(),
		WithRetry(fastRetry),
		WithCallTimeout(20*time.Millisecond),
		WithLogger(logger.NewNop()),
	)

	start := time.Now()
	got, err := s.Summarize(context.Background(), "Slow model.")
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("call timeout not applied, took %v", time.Since(start))
	}
	if got.Short != ShortUnavailable || got.Detailed != DetailedUnavailable {
		t.Errorf("expected placeholders after timeouts, got %+v", got)
	}
	if sc.count(ChunkPrompt) != fastRetry.MaxAttempts {
		t.Errorf("expected timed-out chunk to be retried, got %d calls", sc.count(ChunkPrompt))
	}
}

func TestSummarize_CancelledContext(t *testing.T) {
	sc := newScripted()
	s := New(sc.completer(), WithLogger(logger.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Summarize(ctx, "Anything."); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSummarize_EmptyText(t *testing.T) {
	sc := newScripted()
	s := New(sc.completer(), WithLogger(logger.NewNop()))

	got, err := s.Summarize(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if sc.count(ChunkPrompt) != 0 {
		t.Error("expected no chunk calls for empty text")
	}
	if got.Short != "short of" {
		t.Errorf("unexpected short summary %q", got.Short)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := Config{MaxTokens: 100, Concurrency: 2, CallTimeout: time.Second, Retry: &resilience.RetryConfig{MaxAttempts: 5}}
	s := New(newScripted().completer(), cfg.Options()...)

	if s.chunker.MaxTokens != 100 || s.concurrency != 2 {
		t.Errorf("options not applied: %+v", s)
	}
	if s.retry.MaxAttempts != 5 || s.retry.AttemptTimeout != time.Second {
		t.Errorf("retry not applied: %+v", s.retry)
	}
}
