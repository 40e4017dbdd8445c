// Package openai implements embedding.Embedder on the OpenAI embeddings API.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/lecturekit/embedding"
	llmopenai "github.com/kbukum/lecturekit/llm/openai"
)

const (
	// ProviderName is the registry name of this backend.
	ProviderName = "openai"

	defaultModel = goopenai.SmallEmbedding3
)

func init() {
	embedding.Register(ProviderName, func(cfg embedding.Config) (embedding.Embedder, error) {
		return New(cfg), nil
	})
}

// Embedder calls the embeddings endpoint.
type Embedder struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
}

var _ embedding.Embedder = (*Embedder)(nil)

// New creates an Embedder.
func New(cfg embedding.Config) *Embedder {
	cfg.ApplyDefaults()
	model := goopenai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &Embedder{
		client: llmopenai.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		model:  model,
	}
}

func (e *Embedder) Name() string { return ProviderName }

func (e *Embedder) IsAvailable(context.Context) bool { return e.client != nil }

// Execute embeds texts in one request. Results are placed by their returned
// index, not by response order.
func (e *Embedder) Execute(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, llmopenai.ClassifyError(ProviderName, err)
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("openai: no embedding returned for input %d", i)
		}
	}
	return out, nil
}
