package provider_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kbukum/lecturekit/provider"
)

// echoProvider returns "echo:<input>".
type echoProvider struct{ name string }

func (p *echoProvider) Name() string                     { return p.name }
func (p *echoProvider) IsAvailable(context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, in string) (string, error) {
	return "echo:" + in, nil
}

// failingProvider fails until it has been called failUntil times.
type failingProvider struct {
	name      string
	failUntil int32
	calls     atomic.Int32
}

var errTransient = errors.New("transient backend error")

func (p *failingProvider) Name() string                     { return p.name }
func (p *failingProvider) IsAvailable(context.Context) bool { return true }
func (p *failingProvider) Execute(_ context.Context, in string) (string, error) {
	if p.calls.Add(1) <= p.failUntil {
		return "", errTransient
	}
	return "ok:" + in, nil
}

func TestFunc(t *testing.T) {
	p := provider.Func("upper", func(_ context.Context, in string) (string, error) {
		return strings.ToUpper(in), nil
	})
	if p.Name() != "upper" || !p.IsAvailable(context.Background()) {
		t.Fatalf("unexpected provider %s", p.Name())
	}
	got, err := p.Execute(context.Background(), "graph")
	if err != nil || got != "GRAPH" {
		t.Errorf("got (%q, %v)", got, err)
	}
}

type backendConfig struct{ Model string }

func TestRegistry(t *testing.T) {
	reg := provider.NewRegistry[backendConfig, provider.RequestResponse[string, string]]()
	reg.RegisterFactory("echo", func(cfg backendConfig) (provider.RequestResponse[string, string], error) {
		return &echoProvider{name: cfg.Model}, nil
	})
	reg.RegisterFactory("broken", func(backendConfig) (provider.RequestResponse[string, string], error) {
		return nil, errors.New("missing api key")
	})

	p, err := reg.Create("echo", backendConfig{Model: "small"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "small" {
		t.Errorf("expected config to reach the factory, got %q", p.Name())
	}

	if _, err := reg.Create("broken", backendConfig{}); err == nil {
		t.Error("expected factory error to propagate")
	}

	_, err = reg.Create("missing", backendConfig{})
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected not registered error, got %v", err)
	}

	names := reg.List()
	if len(names) != 2 || names[0] != "broken" || names[1] != "echo" {
		t.Errorf("expected sorted [broken echo], got %v", names)
	}
}
