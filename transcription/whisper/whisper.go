// Package whisper implements transcription.Provider on a faster-whisper
// HTTP sidecar that accepts multipart audio at POST /transcribe.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/transcription"
)

const (
	// ProviderName is the registry name of this backend.
	ProviderName = "whisper"

	defaultURL   = "http://localhost:8387"
	defaultModel = "base"
)

func init() {
	transcription.Register(ProviderName, func(cfg transcription.Config) (transcription.Provider, error) {
		return NewProvider(cfg), nil
	})
}

// Provider talks to the sidecar.
type Provider struct {
	cfg    transcription.Config
	client *http.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a sidecar client. Zero fields use the sidecar defaults.
func NewProvider(cfg transcription.Config) *Provider {
	cfg.ApplyDefaults()
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Provider{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks the sidecar's /health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Execute uploads the audio file and returns the sidecar's segments. The
// file is streamed, not buffered.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (transcription.Response, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return transcription.Response{}, fmt.Errorf("whisper: open audio: %w", err)
	}
	defer f.Close()

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	body, contentType := multipartBody(f, filepath.Base(req.AudioPath), model, lang)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/transcribe", body)
	if err != nil {
		body.CloseWithError(err)
		return transcription.Response{}, fmt.Errorf("whisper: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return transcription.Response{}, ctx.Err()
		}
		return transcription.Response{}, apperrors.ServiceUnavailable(ProviderName).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		appErr := apperrors.ExternalServiceError(ProviderName,
			fmt.Errorf("status %d: %s", resp.StatusCode, msg)).WithDetail("status", resp.StatusCode)
		if resp.StatusCode < 500 {
			appErr.Retryable = false
		}
		return transcription.Response{}, appErr
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return transcription.Response{}, apperrors.ExternalServiceError(ProviderName, fmt.Errorf("decode response: %w", err))
	}
	return result.toResponse(), nil
}

// multipartBody streams the file through a pipe into a multipart form. The
// writer goroutine exits once the form is written or the reader is closed.
func multipartBody(audio io.Reader, filename, model, lang string) (*io.PipeReader, string) {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			if err := w.WriteField("model", model); err != nil {
				return err
			}
			if lang != "" {
				if err := w.WriteField("language", lang); err != nil {
					return err
				}
			}
			part, err := w.CreateFormFile("audio", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, audio); err != nil {
				return err
			}
			return w.Close()
		}()
		pw.CloseWithError(err)
	}()
	return pr, w.FormDataContentType()
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r *whisperResponse) toResponse() transcription.Response {
	segments := make([]transcription.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	duration := r.Duration
	if duration == 0 && len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}
	return transcription.Response{
		Text:     r.Text,
		Segments: segments,
		Duration: duration,
		Language: r.Language,
	}
}
