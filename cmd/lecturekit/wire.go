package main

import (
	"context"
	"fmt"

	"github.com/kbukum/lecturekit/api"
	"github.com/kbukum/lecturekit/cache"
	"github.com/kbukum/lecturekit/chunker"
	"github.com/kbukum/lecturekit/chunker/hftokenizer"
	"github.com/kbukum/lecturekit/chunker/tiktoken"
	"github.com/kbukum/lecturekit/component"
	"github.com/kbukum/lecturekit/embedding"
	"github.com/kbukum/lecturekit/lecture"
	"github.com/kbukum/lecturekit/llm"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/media"
	"github.com/kbukum/lecturekit/observability"
	"github.com/kbukum/lecturekit/provider"
	"github.com/kbukum/lecturekit/redis"
	"github.com/kbukum/lecturekit/summarizer"
	"github.com/kbukum/lecturekit/transcription"

	// Backends register themselves with their provider registries.
	_ "github.com/kbukum/lecturekit/embedding/onnx"
	_ "github.com/kbukum/lecturekit/embedding/openai"
	_ "github.com/kbukum/lecturekit/llm/openai"
	_ "github.com/kbukum/lecturekit/transcription/openai"
	_ "github.com/kbukum/lecturekit/transcription/whisper"
)

// instrument wraps a model backend with resilience, then logging, metrics
// and tracing, outermost last.
func instrument[I, O any](p provider.RequestResponse[I, O], res provider.ResilienceConfig, log *logger.Logger, m *observability.Metrics) provider.RequestResponse[I, O] {
	return provider.Chain(
		provider.WithTracing[I, O](),
		provider.WithMetrics[I, O](m),
		provider.WithLogging[I, O](log),
	)(provider.WithResilience(p, res))
}

// llmResilience drops the retry policy from the LLM wrapper. The summarizer
// retries every call with its own per-attempt timeout.
func llmResilience(cfg provider.ResilienceConfig) provider.ResilienceConfig {
	cfg.Retry = nil
	return cfg
}

// tokenCounter builds the counter used to size summary chunks.
func tokenCounter(cfg SummarizerConfig) (chunker.TokenCounter, error) {
	switch cfg.Tokenizer {
	case TokenizerHF:
		return hftokenizer.FromFile(cfg.TokenizerPath)
	case TokenizerWords:
		return chunker.WordCounter, nil
	default:
		return tiktoken.New(cfg.TokenizerModel)
	}
}

// cacheStore picks Redis when its component is running, memory otherwise.
func cacheStore(cfg *Config, rc *redis.Component) cache.Store {
	switch {
	case cfg.Cache.Disabled:
		return cache.Unavailable()
	case rc != nil && rc.Client() != nil:
		return cache.NewRedisStore(rc.Client())
	default:
		return cache.NewMemoryStore()
	}
}

// buildPipeline constructs every model backend from cfg and assembles the
// pipeline around store.
func buildPipeline(cfg *Config, store cache.Store, log *logger.Logger, metrics *observability.Metrics) (*lecture.Pipeline, error) {
	stt, err := transcription.New(cfg.Transcription)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	completer, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	counter, err := tokenCounter(cfg.Summarizer)
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}

	opts := append(cfg.Summarizer.Options(),
		summarizer.WithTokenCounter(counter),
		summarizer.WithLogger(log.WithComponent("summarizer")),
	)
	return lecture.New(lecture.Deps{
		Transcriber: instrument(stt, cfg.Transcription.Resilience, log.WithComponent("transcription"), metrics),
		Extractor:   media.NewFFmpeg(cfg.Media, log.WithComponent("media")),
		Summarizer:  summarizer.New(instrument(completer, llmResilience(cfg.LLM.Resilience), log.WithComponent("llm"), metrics), opts...),
		// embedding.New already applies the configured resilience.
		Embedder: instrument(embedder, provider.ResilienceConfig{}, log.WithComponent("embedding"), metrics),
		Cache:    store,
		Logger:   log.WithComponent("lecture"),
		Metrics:  metrics,
	}, cfg.Lecture)
}

// healthChecker merges component health with the cache check.
func healthChecker(reg *component.Registry, h *api.Handler) func(ctx context.Context) []component.Health {
	return func(ctx context.Context) []component.Health {
		return append(reg.HealthAll(ctx), h.CacheHealth(ctx))
	}
}
