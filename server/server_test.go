package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lecturekit/component"
	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/logger"
)

func init() { gin.SetMode(gin.TestMode) }

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Port)
	}
	if cfg.MaxBodySize != "512MB" {
		t.Errorf("max body = %q", cfg.MaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("cors origins = %v", cfg.CORS.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"port too large", Config{Port: 70000}},
		{"negative port", Config{Port: -1}},
		{"negative rate limit", Config{RequestsPerMinute: -5}},
		{"negative timeout", Config{ReadTimeout: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := New(Config{Host: "127.0.0.1", Port: 0}, logger.NewNop())
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("lecturekit", nil)
	c := NewComponent(srv)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	// Port 0 defaults to 5000; bind an ephemeral port instead.
	srv.httpServer.Addr = "127.0.0.1:0"
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", srv.Addr()))
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_HandleAndMiddleware(t *testing.T) {
	srv := New(Config{MaxBodySize: "1KB"}, logger.NewNop())
	srv.ApplyMiddleware()
	srv.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	srv.GinEngine().POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			RespondWithError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	srv.GinEngine().GET("/panic", func(*gin.Context) { panic("boom") })

	h := srv.Handler()
	do := func(method, path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rr
	}

	if rr := do(http.MethodGet, "/raw", ""); rr.Code != http.StatusTeapot {
		t.Errorf("mux handler: expected 418, got %d", rr.Code)
	}
	if rr := do(http.MethodPost, "/echo", "short"); rr.Code != http.StatusOK {
		t.Errorf("small body: expected 200, got %d", rr.Code)
	}

	rr := do(http.MethodPost, "/echo", strings.Repeat("x", 2048))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("large body: expected 413, got %d", rr.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Error.Code != apperrors.ErrCodePayloadTooLarge {
		t.Errorf("code = %s", body.Error.Code)
	}

	if rr := do(http.MethodGet, "/panic", ""); rr.Code != http.StatusInternalServerError {
		t.Errorf("panic: expected 500, got %d", rr.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  apperrors.ErrorCode
	}{
		{"app error", apperrors.InputRequired("query"), http.StatusBadRequest, apperrors.ErrCodeMissingField},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, apperrors.ErrCodeTimeout},
		{"plain", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
		{"wrapped transcription", fmt.Errorf("run: %w", apperrors.TranscriptionFailed(nil)), http.StatusBadGateway, apperrors.ErrCodeTranscriptionFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			RespondWithError(c, tc.err)

			if rr.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error.Code != tc.wantErr {
				t.Errorf("code = %s, want %s", body.Error.Code, tc.wantErr)
			}
		})
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"github.com/kbukum/lecturekit/api.(*Handler).Search-fm", "Handler.Search"},
		{"github.com/kbukum/lecturekit/server/endpoint.Health.func1", "health"},
		{"main.handler", "handler"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := formatHandlerName(tc.in); got != tc.want {
				t.Errorf("formatHandlerName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRoutes_SystemLast(t *testing.T) {
	srv := New(Config{}, logger.NewNop())
	srv.RegisterDefaultEndpoints("svc", nil)
	srv.GinEngine().POST("/search", func(*gin.Context) {})

	routes := NewComponent(srv).Routes()
	if len(routes) == 0 || routes[0].Path != "/search" {
		t.Fatalf("expected /search first, got %+v", routes)
	}
	if last := routes[len(routes)-1].Path; !systemPaths[last] {
		t.Errorf("expected a system path last, got %s", last)
	}
}
