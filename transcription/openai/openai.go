// Package openai implements transcription.Provider on the OpenAI audio
// transcription API, requesting verbose JSON for segment timestamps.
package openai

import (
	"context"

	goopenai "github.com/sashabaranov/go-openai"

	llmopenai "github.com/kbukum/lecturekit/llm/openai"
	"github.com/kbukum/lecturekit/transcription"
)

const (
	// ProviderName is the registry name of this backend.
	ProviderName = "openai"

	defaultModel = goopenai.Whisper1
)

func init() {
	transcription.Register(ProviderName, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg), nil
	})
}

// Provider calls the transcription endpoint.
type Provider struct {
	client *goopenai.Client
	cfg    transcription.Config
}

var _ transcription.Provider = (*Provider)(nil)

// New creates a Provider.
func New(cfg transcription.Config) *Provider {
	cfg.ApplyDefaults()
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Provider{
		client: llmopenai.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		cfg:    cfg,
	}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) IsAvailable(context.Context) bool { return p.client != nil }

// Execute uploads the audio file and maps the returned segments.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (transcription.Response, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: req.AudioPath,
		Language: lang,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return transcription.Response{}, llmopenai.ClassifyError(ProviderName, err)
	}

	segments := make([]transcription.Segment, len(resp.Segments))
	for i, s := range resp.Segments {
		segments[i] = transcription.Segment{Start: s.Start, End: s.End, Text: s.Text}
	}
	return transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Duration: resp.Duration,
		Language: resp.Language,
	}, nil
}
