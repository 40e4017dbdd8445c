package api

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lecturekit/component"
	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/lecture"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/search"
	"github.com/kbukum/lecturekit/server"
	"github.com/kbukum/lecturekit/summarizer"
	"github.com/kbukum/lecturekit/transcription"
	"github.com/kbukum/lecturekit/validation"
)

// FieldFile is the multipart field carrying the video.
const FieldFile = "file"

// Service is the part of lecture.Pipeline the handlers use.
type Service interface {
	Process(ctx context.Context, video io.Reader) (*lecture.Result, error)
	Search(ctx context.Context, query string, idx *search.Index) (search.Result, error)
	Highlights(t transcription.Transcript, keywords []string) ([]transcription.Segment, error)
	CacheAvailable(ctx context.Context) bool
}

var _ Service = (*lecture.Pipeline)(nil)

// Handler serves the lecture endpoints.
type Handler struct {
	svc Service
	log *logger.Logger
}

// New creates a Handler.
func New(svc Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: logger.OrDefault(log, "api").WithComponent("api")}
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/process_video", h.ProcessVideo)
	r.POST("/search", h.Search)
	r.POST("/highlights", h.Highlights)
}

type processResponse struct {
	Hash        string                   `json:"hash"`
	Transcript  transcription.Transcript `json:"transcript"`
	Summary     summarizer.Summary       `json:"summary"`
	SearchIndex []string                 `json:"search_index"`
	Embeddings  [][]float32              `json:"embeddings"`
	Cached      cachedFlags              `json:"cached"`
	// IndexError is set when the transcript and summary succeeded but the
	// search index could not be built.
	IndexError *apperrors.ErrorBody `json:"index_error,omitempty"`
}

type cachedFlags struct {
	Transcript bool `json:"transcript"`
	Summary    bool `json:"summary"`
}

// ProcessVideo streams the uploaded file into the pipeline.
func (h *Handler) ProcessVideo(c *gin.Context) {
	part, err := videoPart(c.Request)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer part.Close()

	res, err := h.svc.Process(c.Request.Context(), part)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Warn("process video failed", logger.ErrorFields("process_video", err))
		server.RespondWithError(c, err)
		return
	}

	resp := processResponse{
		Hash:        res.Hash.String(),
		Transcript:  res.Transcript,
		Summary:     res.Summary,
		SearchIndex: []string{},
		Embeddings:  [][]float32{},
		Cached:      cachedFlags{Transcript: res.TranscriptCached, Summary: res.SummaryCached},
	}
	if res.IndexError != nil {
		body := apperrors.Wrap(res.IndexError).ToResponse().Error
		resp.IndexError = &body
	} else if res.Index != nil {
		resp.SearchIndex = res.Index.Sentences
		resp.Embeddings = res.Index.Embeddings
	}
	c.JSON(http.StatusOK, resp)
}

// videoPart returns the "file" part without buffering the upload.
func videoPart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apperrors.InvalidInput(FieldFile, "expected a multipart/form-data upload")
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.InputRequired(FieldFile)
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == FieldFile {
			return part, nil
		}
		_ = part.Close()
	}
}

type searchRequest struct {
	Query       string      `json:"query" validate:"required,notblank,max=2000"`
	SearchIndex []string    `json:"search_index" validate:"required,min=1"`
	Embeddings  [][]float32 `json:"embeddings" validate:"required,min=1,dive,required,min=1"`
}

// Search answers a query against an index returned by /process_video.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	widths := make([]int, len(req.Embeddings))
	for i, e := range req.Embeddings {
		widths[i] = len(e)
	}
	if err := validation.New().
		SameLength("embeddings", len(req.Embeddings), len(req.SearchIndex)).
		Uniform("embeddings", widths).
		Err(); err != nil {
		server.RespondWithError(c, err)
		return
	}

	res, err := h.svc.Search(c.Request.Context(), req.Query, &search.Index{
		Sentences:  req.SearchIndex,
		Embeddings: req.Embeddings,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type highlightsRequest struct {
	Transcript transcription.Transcript `json:"transcript" validate:"required,min=1"`
	Keywords   []string                 `json:"keywords" validate:"required,min=1"`
}

type highlightsResponse struct {
	Highlights []transcription.Segment `json:"highlights"`
}

// Highlights returns the transcript segments mentioning any keyword.
func (h *Handler) Highlights(c *gin.Context) {
	var req highlightsRequest
	if err := bind(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	segments, err := h.svc.Highlights(req.Transcript, req.Keywords)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, highlightsResponse{Highlights: segments})
}

// CacheHealth reports the cache as degraded when it does not answer. The
// pipeline still runs without it.
func (h *Handler) CacheHealth(ctx context.Context) component.Health {
	if h.svc.CacheAvailable(ctx) {
		return component.Health{Name: "cache", Status: component.StatusHealthy}
	}
	return component.Health{Name: "cache", Status: component.StatusDegraded, Message: "cache unavailable, results are not reused"}
}

// bind decodes a JSON body into req and validates its tags.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return apperrors.InvalidInput("body", "malformed JSON").WithCause(err)
	}
	return validation.Validate(req)
}
