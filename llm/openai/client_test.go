package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/kbukum/lecturekit/errors"
	"github.com/kbukum/lecturekit/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) llm.Config {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return llm.Config{BaseURL: srv.URL + "/v1", APIKey: "test-key", Model: "gpt-4"}
}

func TestClient_Execute(t *testing.T) {
	var got map[string]any
	cfg := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4-0613",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "A short summary."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	})

	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	text, err := llm.Complete(context.Background(), c, "Summarize.", "Lecture text.")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if text != "A short summary." {
		t.Errorf("unexpected content %q", text)
	}

	if got["model"] != "gpt-4" {
		t.Errorf("expected default model, got %v", got["model"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", got["messages"])
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "Summarize." {
		t.Errorf("unexpected system message %v", first)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantCode      apperrors.ErrorCode
		wantRetryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrCodeRateLimited, true},
		{"server error", http.StatusInternalServerError, apperrors.ErrCodeExternalService, true},
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrCodeExternalService, false},
		{"bad request", http.StatusBadRequest, apperrors.ErrCodeExternalService, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "test"}}`))
			})
			c, _ := New(cfg)

			_, err := c.Execute(context.Background(), llm.CompletionRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			})
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T: %v", err, err)
			}
			if appErr.Code != tc.wantCode || appErr.Retryable != tc.wantRetryable {
				t.Errorf("got code=%s retryable=%v, want %s/%v", appErr.Code, appErr.Retryable, tc.wantCode, tc.wantRetryable)
			}
		})
	}
}

func TestClient_NoChoices(t *testing.T) {
	cfg := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
	})
	c, _ := New(cfg)
	if _, err := c.Execute(context.Background(), llm.CompletionRequest{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestClassifyError_Context(t *testing.T) {
	if err := ClassifyError("openai", context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation to pass through, got %v", err)
	}
	appErr, ok := apperrors.AsAppError(ClassifyError("openai", context.DeadlineExceeded))
	if !ok || appErr.Code != apperrors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT, got %v", appErr)
	}
	if ClassifyError("openai", nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestRegisteredWithLLM(t *testing.T) {
	c, err := llm.New(llm.Config{Provider: ProviderName, APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != ProviderName {
		t.Errorf("unexpected provider %s", c.Name())
	}
}
