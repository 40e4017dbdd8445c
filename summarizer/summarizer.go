// Package summarizer condenses long lecture transcripts with a chat model.
//
// The transcript is split into token-bounded chunks, each chunk is
// condensed in parallel, and the joined chunk summaries feed a detailed and
// a short final pass. Model failures degrade the output instead of failing
// the call: a failed chunk contributes nothing and a failed final pass is
// replaced by a placeholder.
package summarizer

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/lecturekit/chunker"
	"github.com/kbukum/lecturekit/llm"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/resilience"
)

// Summary holds both summary lengths.
type Summary struct {
	Short    string `json:"short"`
	Detailed string `json:"detailed"`
}

// Summarizer runs the chunked summarization passes.
type Summarizer struct {
	completer   llm.Completer
	chunker     chunker.Chunker
	concurrency int
	retry       resilience.RetryConfig
	log         *logger.Logger
}

// New creates a Summarizer on completer.
func New(completer llm.Completer, opts ...Option) *Summarizer {
	retry := resilience.DefaultRetryConfig()
	retry.AttemptTimeout = DefaultCallTimeout

	s := &Summarizer{
		completer:   completer,
		chunker:     chunker.Chunker{MaxTokens: chunker.DefaultMaxTokens, Counter: chunker.WordCounter},
		concurrency: DefaultConcurrency,
		retry:       retry,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.OrDefault(s.log, "summarizer")
	return s
}

// Summarize produces short and detailed summaries of text. The error is
// non-nil only when ctx is cancelled.
func (s *Summarizer) Summarize(ctx context.Context, text string) (Summary, error) {
	chunks := s.chunker.Split(text)
	log := s.log.WithContext(ctx)
	log.Debug("summarizing transcript", logger.Fields(logger.FieldChunks, len(chunks)))

	partial := make([]string, len(chunks))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			summary, err := s.complete(ctx, ChunkPrompt, chunk)
			if err != nil {
				log.Warn("chunk summary failed", logger.MergeWithError(logger.Fields("chunk", i), err))
				return nil
			}
			partial[i] = summary
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	combined := strings.Join(partial, " ")

	var out Summary
	g = errgroup.Group{}
	g.Go(func() error {
		out.Detailed = s.completeOr(ctx, DetailedPrompt, combined, DetailedUnavailable, "detailed")
		return nil
	})
	g.Go(func() error {
		out.Short = s.completeOr(ctx, ShortPrompt, combined, ShortUnavailable, "short")
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *Summarizer) completeOr(ctx context.Context, system, user, fallback, pass string) string {
	text, err := s.complete(ctx, system, user)
	if err != nil {
		s.log.WithContext(ctx).Warn("final summary pass failed", logger.MergeWithError(logger.Fields("pass", pass), err))
		return fallback
	}
	return text
}

func (s *Summarizer) complete(ctx context.Context, system, user string) (string, error) {
	return resilience.Retry(ctx, s.retry, func(ctx context.Context) (string, error) {
		return llm.Complete(ctx, s.completer, system, user)
	})
}
