package lecture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/lecturekit/cache"
	"github.com/kbukum/lecturekit/contenthash"
	"github.com/kbukum/lecturekit/embedding"
	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/highlight"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/media"
	"github.com/kbukum/lecturekit/observability"
	"github.com/kbukum/lecturekit/search"
	"github.com/kbukum/lecturekit/summarizer"
	"github.com/kbukum/lecturekit/transcription"
)

// Stage names used in logs, spans and error details.
const (
	StageSpool      = "spool"
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StageIndex      = "index"
)

// Summarizer condenses a full transcript.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summarizer.Summary, error)
}

// Deps are the collaborators of a Pipeline. Logger and Metrics are optional;
// a nil Cache disables caching.
type Deps struct {
	Transcriber transcription.Provider
	Extractor   media.Extractor
	Summarizer  Summarizer
	Embedder    embedding.Embedder
	Cache       cache.Store
	Logger      *logger.Logger
	Metrics     *observability.Metrics
}

// Config tunes a Pipeline.
type Config struct {
	// TTL of cached transcripts and summaries. Defaults to cache.DefaultTTL.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// TempDir holds per-run spool directories. Empty uses os.TempDir.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
	// Language is passed to the transcriber. Empty lets it detect.
	Language string `yaml:"language" mapstructure:"language"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = cache.DefaultTTL
	}
}

// Result is everything produced for one video.
type Result struct {
	Hash       contenthash.Hash         `json:"hash"`
	Transcript transcription.Transcript `json:"transcript"`
	Summary    summarizer.Summary       `json:"summary"`
	// Index is nil when IndexError is set.
	Index      *search.Index `json:"-"`
	IndexError error         `json:"-"`

	TranscriptCached bool `json:"transcript_cached"`
	SummaryCached    bool `json:"summary_cached"`
}

// Pipeline processes lecture videos. It is safe for concurrent use; runs
// share only the cache store.
type Pipeline struct {
	deps        Deps
	cfg         Config
	store       cache.Store
	transcripts *cache.Typed[transcription.Transcript]
	summaries   *cache.Typed[summarizer.Summary]
	engine      *search.Engine
	log         *logger.Logger
}

// New creates a Pipeline. Transcriber, Extractor, Summarizer and Embedder
// are required.
func New(deps Deps, cfg Config) (*Pipeline, error) {
	switch {
	case deps.Transcriber == nil:
		return nil, fmt.Errorf("lecture: transcriber is required")
	case deps.Extractor == nil:
		return nil, fmt.Errorf("lecture: audio extractor is required")
	case deps.Summarizer == nil:
		return nil, fmt.Errorf("lecture: summarizer is required")
	case deps.Embedder == nil:
		return nil, fmt.Errorf("lecture: embedder is required")
	}
	cfg.ApplyDefaults()

	log := logger.OrDefault(deps.Logger, "lecture")
	store := deps.Cache
	if store == nil {
		store = cache.Unavailable()
	}
	store = cache.Resilient(store, log)

	typed := cache.TypedConfig{TTL: cfg.TTL, Logger: log, Metrics: deps.Metrics}
	return &Pipeline{
		deps:        deps,
		cfg:         cfg,
		store:       store,
		transcripts: cache.NewTyped[transcription.Transcript](store, contenthash.NamespaceTranscript, typed),
		summaries:   cache.NewTyped[summarizer.Summary](store, contenthash.NamespaceSummary, typed),
		engine:      search.NewEngine(deps.Embedder),
		log:         log,
	}, nil
}

// Process runs the pipeline over the full contents of video.
func (p *Pipeline) Process(ctx context.Context, video io.Reader) (*Result, error) {
	dir, err := os.MkdirTemp(p.cfg.TempDir, "lecture-"+uuid.NewString()+"-")
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create spool dir: %w", err)).WithStage(StageSpool)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.log.Warn("failed to remove spool dir", logger.Fields("dir", dir, logger.FieldError, err.Error()))
		}
	}()

	videoPath := filepath.Join(dir, "video")
	n, err := spool(video, videoPath)
	if err != nil {
		return nil, apperrors.Internal(err).WithStage(StageSpool)
	}
	if n == 0 {
		return nil, apperrors.InputRequired("file")
	}
	hash, err := contenthash.SumFile(videoPath)
	if err != nil {
		return nil, apperrors.Internal(err).WithStage(StageSpool)
	}
	log := p.log.WithContext(ctx)
	log.Info("video received", logger.Fields(logger.FieldContentHash, hash.Short(), "bytes", n))

	res := &Result{Hash: hash}

	res.Transcript, res.TranscriptCached, err = p.transcript(ctx, hash, videoPath, dir)
	if err != nil {
		return nil, err
	}

	res.Summary, res.SummaryCached, err = p.summary(ctx, hash, res.Transcript)
	if err != nil {
		return nil, err
	}

	res.Index, res.IndexError = p.index(ctx, hash, res.Transcript)
	if res.IndexError != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return res, nil
}

// Search answers query against an index returned by Process.
func (p *Pipeline) Search(ctx context.Context, query string, idx *search.Index) (search.Result, error) {
	ctx, stage := observability.StartStage(ctx, p.deps.Metrics, observability.SpanSearch, "search")
	res, err := p.engine.Search(ctx, query, idx)
	stage.End(ctx, err)
	return res, err
}

// Highlights returns the segments of t that mention any keyword.
func (p *Pipeline) Highlights(t transcription.Transcript, keywords []string) ([]transcription.Segment, error) {
	if len(t) == 0 {
		return nil, apperrors.InputRequired("transcript")
	}
	if len(keywords) == 0 {
		return nil, apperrors.InputRequired("keywords")
	}
	return highlight.Extract(t, keywords), nil
}

// CacheAvailable reports whether the cache backend answers.
func (p *Pipeline) CacheAvailable(ctx context.Context) bool {
	return p.store.Available(ctx)
}

func (p *Pipeline) transcript(ctx context.Context, hash contenthash.Hash, videoPath, dir string) (transcription.Transcript, bool, error) {
	key := hash.Key(contenthash.NamespaceTranscript)
	log := p.log.WithContext(ctx)

	if t, ok, _ := p.transcripts.Get(ctx, key); ok && len(t) > 0 {
		log.Info("using cached transcript", logger.StageFields(StageTranscribe, hash.Short()))
		return t, true, nil
	}

	ctx, stage := observability.StartStage(ctx, p.deps.Metrics, observability.SpanTranscribe, StageTranscribe,
		attribute.String(observability.AttrContentHash, hash.String()))
	t, err := p.transcribe(ctx, videoPath, dir)
	stage.End(ctx, err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		log.Error("transcription failed", logger.MergeWithError(logger.StageFields(StageTranscribe, hash.Short()), err))
		return nil, false, err
	}

	log.Info("transcribed video", logger.MergeWithDuration(logger.Fields(
		logger.FieldContentHash, hash.Short(),
		logger.FieldSegments, len(t),
	), stage.Elapsed()))
	_ = p.transcripts.Set(ctx, key, t)
	return t, false, nil
}

func (p *Pipeline) transcribe(ctx context.Context, videoPath, dir string) (transcription.Transcript, error) {
	audioPath := filepath.Join(dir, "audio.wav")
	if err := p.deps.Extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, apperrors.TranscriptionFailed(err)
	}
	resp, err := p.deps.Transcriber.Execute(ctx, transcription.Request{
		AudioPath: audioPath,
		Language:  p.cfg.Language,
	})
	if err != nil {
		return nil, apperrors.TranscriptionFailed(err)
	}
	t := transcription.NewTranscript(resp.Segments)
	if len(t) == 0 {
		return nil, apperrors.TranscriptionFailed(errors.New("no speech segments recognized"))
	}
	return t, nil
}

func (p *Pipeline) summary(ctx context.Context, hash contenthash.Hash, t transcription.Transcript) (summarizer.Summary, bool, error) {
	key := hash.Key(contenthash.NamespaceSummary)
	log := p.log.WithContext(ctx)

	if s, ok, _ := p.summaries.Get(ctx, key); ok {
		log.Info("using cached summary", logger.StageFields(StageSummarize, hash.Short()))
		return s, true, nil
	}

	ctx, stage := observability.StartStage(ctx, p.deps.Metrics, observability.SpanSummarize, StageSummarize,
		attribute.String(observability.AttrContentHash, hash.String()))
	s, err := p.deps.Summarizer.Summarize(ctx, t.FullText())
	stage.End(ctx, err)
	if err != nil {
		return summarizer.Summary{}, false, err
	}

	log.Info("summarized transcript", logger.MergeWithDuration(
		logger.StageFields(StageSummarize, hash.Short()), stage.Elapsed()))
	_ = p.summaries.Set(ctx, key, s)
	return s, false, nil
}

func (p *Pipeline) index(ctx context.Context, hash contenthash.Hash, t transcription.Transcript) (*search.Index, error) {
	ctx, stage := observability.StartStage(ctx, p.deps.Metrics, observability.SpanIndex, StageIndex,
		attribute.String(observability.AttrContentHash, hash.String()))
	idx, err := search.BuildIndex(ctx, p.deps.Embedder, t)
	stage.End(ctx, err)
	if err != nil {
		p.log.WithContext(ctx).Error("failed to build search index",
			logger.MergeWithError(logger.StageFields(StageIndex, hash.Short()), err))
		return nil, err
	}
	return idx, nil
}

// spool copies r into a new file at path and returns the byte count.
func spool(r io.Reader, path string) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create spool file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("spool upload: %w", err)
	}
	return n, nil
}
