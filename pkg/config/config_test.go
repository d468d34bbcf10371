package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := Default()
	if cfg.Storage.Driver != def.Storage.Driver {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.RetryInitialDelay != Duration(1*time.Second) || cfg.LLM.RetryMaxAttempts != 3 {
		t.Errorf("retry tuning = %v / %d", cfg.LLM.RetryInitialDelay, cfg.LLM.RetryMaxAttempts)
	}
	if cfg.Theme != "dark" {
		t.Errorf("theme = %q", cfg.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casefile.yaml")
	content := `storage:
  driver: file
  path: /tmp/casefile.json
llm:
  provider: ollama
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "/tmp/casefile.json" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	// Unset fields keep their defaults rather than zeroing out.
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.RetryMaxAttempts != 3 {
		t.Errorf("retry attempts = %d", cfg.LLM.RetryMaxAttempts)
	}
	if cfg.Theme != "dark" {
		t.Errorf("theme = %q", cfg.Theme)
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casefile.yaml")
	content := `storage:
  driver: sqlite
  path: /data/case.db
llm:
  provider: openai
  apiKey: sk-from-file
  model: gpt-4o
  retryInitialDelay: 500ms
  retryMaxAttempts: 5
trace:
  enabled: true
  path: /data/trace.jsonl
theme: light
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-from-file" {
		t.Errorf("apiKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.RetryInitialDelay != Duration(500*time.Millisecond) || cfg.LLM.RetryMaxAttempts != 5 {
		t.Errorf("retry tuning = %v / %d", cfg.LLM.RetryInitialDelay, cfg.LLM.RetryMaxAttempts)
	}
	if !cfg.Trace.Enabled || cfg.Trace.Path != "/data/trace.jsonl" {
		t.Errorf("trace = %+v", cfg.Trace)
	}
	if cfg.Theme != "light" {
		t.Errorf("theme = %q", cfg.Theme)
	}
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casefile.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  apiKey: sk-from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CASEFILE_API_KEY", "sk-from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-from-env" {
		t.Errorf("apiKey = %q, want env override", cfg.LLM.APIKey)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casefile.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
