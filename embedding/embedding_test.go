package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/lecturekit/provider"
)

func TestEmbed(t *testing.T) {
	calls := 0
	e := provider.Func("fixed", func(_ context.Context, texts []string) ([][]float32, error) {
		calls++
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{float32(i)}
		}
		return out, nil
	})

	got, err := Embed(context.Background(), e, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1][0] != 1 {
		t.Errorf("unexpected vectors %v", got)
	}

	got, err = Embed(context.Background(), e, nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v, %v", got, err)
	}
	if calls != 1 {
		t.Errorf("expected embedder to be skipped for an empty batch, got %d calls", calls)
	}
}

func TestEmbed_CountMismatch(t *testing.T) {
	e := provider.Func("short", func(_ context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	})
	if _, err := Embed(context.Background(), e, []string{"a", "b"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestEmbed_Error(t *testing.T) {
	boom := errors.New("boom")
	e := provider.Func("broken", func(context.Context, []string) ([][]float32, error) { return nil, boom })
	if _, err := Embed(context.Background(), e, []string{"a"}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"onnx ok", Config{Provider: "onnx", ModelPath: "m.onnx", TokenizerPath: "t.json"}, false},
		{"onnx missing model", Config{Provider: "onnx", TokenizerPath: "t.json"}, true},
		{"openai ok", Config{Provider: "openai", APIKey: "k"}, false},
		{"openai missing key", Config{Provider: "openai"}, true},
		{"empty provider", Config{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "nope"}); err == nil {
		t.Fatal("expected unknown provider error")
	}
}
