package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "lecturekit"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "lecturekit" {
			t.Errorf("expected logging service name to follow config name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "lecturekit", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Cache         struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	LLM struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"llm"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: lecturekit
environment: staging
cache:
  ttl: 30m
llm:
  model: gpt-4o-mini
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("LLM_API_KEY", "sk-test")

	var cfg testConfig
	if err := LoadConfig("lecturekit", &cfg, WithConfigFile(configPath), WithFileSystem(RealFileSystem{})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "lecturekit" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected ttl 30m, got %v", cfg.Cache.TTL)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model from yaml, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected defaults to be applied, got level %q", cfg.Logging.Level)
	}
}

func TestLoadConfigRunsValidate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("environment: qa\nname: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	err := LoadConfig("lecturekit", &cfg, WithConfigFile(configPath))
	if err == nil || !strings.Contains(err.Error(), "config.environment") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg struct {
		Name string `mapstructure:"name"`
	}
	if err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/lecturekit/config.yml": true,
		"./.env":                      true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("lecturekit", LoaderConfig{})
	if files.ConfigFile != "./cmd/lecturekit/config.yml" {
		t.Errorf("expected config file at ./cmd/lecturekit/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file ./.env, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("lecturekit", LoaderConfig{ConfigFile: "/etc/lk.yml"})
	if explicit.ConfigFile != "/etc/lk.yml" {
		t.Errorf("explicit path should win, got %q", explicit.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"NAME", []string{"name"}},
		{"LLM_API_KEY", []string{"llm_api_key", "llm.api_key", "llm.api.key"}},
		{"REDIS_ADDR", []string{"redis_addr", "redis.addr"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := envKeyVariants(tc.in)
			if !slices.Equal(got, tc.want) {
				t.Errorf("envKeyVariants(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("options not applied: %+v", lc)
	}
}
