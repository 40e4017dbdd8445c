// Package openai implements llm.Completer on the OpenAI chat completions API
// and any server that speaks it. It also holds the client setup and error
// mapping shared by the OpenAI embedding and transcription backends.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/llm"
)

// ProviderName is the registry name of this backend.
const ProviderName = "openai"

func init() {
	llm.Register(ProviderName, func(cfg llm.Config) (llm.Completer, error) {
		return New(cfg)
	})
}

// NewClient builds a go-openai client. An empty baseURL uses api.openai.com.
func NewClient(apiKey, baseURL string, timeout time.Duration) *goopenai.Client {
	cc := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cc.BaseURL = baseURL
	}
	if timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: timeout}
	}
	return goopenai.NewClientWithConfig(cc)
}

// ClassifyError maps API failures to AppErrors. Throttling and server
// errors stay retryable; other 4xx responses do not.
func ClassifyError(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(service).WithCause(err)
	}

	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	appErr := apperrors.ExternalServiceError(service, err)
	switch {
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited().WithCause(err).WithDetail("service", service)
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout:
		appErr.Retryable = false
	}
	if status != 0 {
		appErr.WithDetail("status", status)
	}
	return appErr
}

// Client is a chat completion backend.
type Client struct {
	client *goopenai.Client
	cfg    llm.Config
}

var _ llm.Completer = (*Client)(nil)

// New creates a Client from cfg.
func New(cfg llm.Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		client: NewClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		cfg:    cfg,
	}, nil
}

func (c *Client) Name() string { return ProviderName }

// IsAvailable reports whether the client is configured. It does not call
// the API.
func (c *Client) IsAvailable(context.Context) bool { return c.client != nil }

// Execute sends one chat completion request.
func (c *Client) Execute(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	msgs := req.AllMessages()
	chat := make([]goopenai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		chat[i] = goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    chat,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return llm.CompletionResponse{}, ClassifyError(ProviderName, err)
	}
	if len(resp.Choices) == 0 {
		return llm.CompletionResponse{}, apperrors.ExternalServiceError(ProviderName, fmt.Errorf("no choices in response"))
	}

	return llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
