// Package config loads the casefile configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes from YAML strings like "500ms"
// or "1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds everything the CLI wires together at startup. All fields are
// optional; Load applies the defaults below.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	LLM     LLMConfig     `yaml:"llm"`
	Trace   TraceConfig   `yaml:"trace"`
	Metrics MetricsConfig `yaml:"metrics"`
	Theme   string        `yaml:"theme"`
}

// StorageConfig selects the persistence backing for the document.
type StorageConfig struct {
	// Driver is "sqlite" or "file".
	Driver string `yaml:"driver"`

	// Path is the database or document file path.
	Path string `yaml:"path"`
}

// LLMConfig configures the enrichment client. An empty APIKey (and empty
// OllamaURL) disables enrichment entirely.
type LLMConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `yaml:"provider"`

	// APIKey gates enrichment for the openai provider. Overridden by the
	// CASEFILE_API_KEY environment variable when set.
	APIKey string `yaml:"apiKey"`

	Model string `yaml:"model"`

	// OllamaURL is the base URL for the ollama provider.
	OllamaURL string `yaml:"ollamaUrl"`

	// Retry tuning for rate-limited calls.
	RetryInitialDelay Duration `yaml:"retryInitialDelay"`
	RetryMaxAttempts  int      `yaml:"retryMaxAttempts"`
}

// TraceConfig configures the JSONL trace exporter.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsConfig enables the Prometheus collector. When Addr is set the
// metrics are additionally exposed over HTTP for the lifetime of the
// process, which is mainly useful for long enrichment sessions.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".casefile")
	return Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   filepath.Join(dataDir, "casefile.db"),
		},
		LLM: LLMConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			OllamaURL:         "http://localhost:11434",
			RetryInitialDelay: Duration(1 * time.Second),
			RetryMaxAttempts:  3,
		},
		Trace: TraceConfig{
			Path: filepath.Join(dataDir, "trace.jsonl"),
		},
		Theme: "dark",
	}
}

// Load reads the config file at path, fills in defaults for unset fields,
// and applies environment overrides. A missing file yields the defaults
// without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
		cfg = applyDefaults(cfg)
	}

	if key := os.Getenv("CASEFILE_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	return cfg, nil
}

// applyDefaults fills any zero-valued field with its default so a partial
// config file doesn't zero out tuning values.
func applyDefaults(cfg Config) Config {
	def := Default()
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = def.Storage.Driver
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = def.Storage.Path
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.OllamaURL == "" {
		cfg.LLM.OllamaURL = def.LLM.OllamaURL
	}
	if cfg.LLM.RetryInitialDelay == 0 {
		cfg.LLM.RetryInitialDelay = def.LLM.RetryInitialDelay
	}
	if cfg.LLM.RetryMaxAttempts == 0 {
		cfg.LLM.RetryMaxAttempts = def.LLM.RetryMaxAttempts
	}
	if cfg.Trace.Path == "" {
		cfg.Trace.Path = def.Trace.Path
	}
	if cfg.Theme == "" {
		cfg.Theme = def.Theme
	}
	return cfg
}
