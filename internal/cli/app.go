package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"casefile/pkg/casefile"
	"casefile/pkg/config"
	"casefile/pkg/enrich"
	"casefile/pkg/llm"
	"casefile/pkg/metrics"
	"casefile/pkg/storage"
	"casefile/pkg/trace"
)

// App bundles the wired-up core components for one command invocation.
type App struct {
	Config   config.Config
	Store    *casefile.Store
	Pipeline *enrich.Pipeline

	backing  storage.Backing
	exporter trace.Exporter
}

// openApp loads config, opens the backing, and builds the store and
// pipeline. Callers must Close the returned App.
func (o *RootOptions) openApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	backing, err := openBacking(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var collector metrics.Collector = metrics.NewNoopCollector()
	if cfg.Metrics.Enabled {
		prom := metrics.NewCollector()
		collector = prom
		if cfg.Metrics.Addr != "" {
			go serveMetrics(cfg.Metrics.Addr, prom)
		}
	}

	store, err := casefile.Open(ctx, backing, casefile.WithCollector(collector))
	if err != nil {
		backing.Close()
		return nil, err
	}

	var exporter trace.Exporter = trace.NewNoopExporter()
	if cfg.Trace.Enabled {
		fe, err := trace.NewFileExporter(cfg.Trace.Path)
		if err != nil {
			backing.Close()
			return nil, err
		}
		exporter = fe
	}

	pipeline := enrich.NewPipeline(store, buildClient(cfg.LLM, store),
		enrich.WithExporter(exporter), enrich.WithCollector(collector))

	return &App{
		Config:   cfg,
		Store:    store,
		Pipeline: pipeline,
		backing:  backing,
		exporter: exporter,
	}, nil
}

// Close waits for in-flight enrichment and releases resources.
func (a *App) Close() {
	a.Pipeline.Wait()
	a.exporter.Close()
	a.backing.Close()
}

// serveMetrics exposes the Prometheus registry over HTTP. Errors are logged
// and not fatal; metrics are best-effort.
func serveMetrics(addr string, prom *metrics.PrometheusCollector) {
	handler := promhttp.HandlerFor(prom.Registry(), promhttp.HandlerOpts{})
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Printf("casefile: metrics listener failed: %v", err)
	}
}

func openBacking(cfg config.StorageConfig) (storage.Backing, error) {
	switch cfg.Driver {
	case "sqlite":
		return storage.NewSQLiteBacking(cfg.Path)
	case "file":
		return storage.NewFileBacking(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// buildClient returns the enrichment client, or nil when enrichment is not
// configured. The credential stored in the document wins over the config
// file; absence of both disables enrichment gracefully.
func buildClient(cfg config.LLMConfig, store *casefile.Store) llm.Client {
	switch cfg.Provider {
	case "ollama":
		return llm.NewOllamaClient(cfg.OllamaURL, cfg.Model)
	default:
		key := store.APIKey()
		if key == "" {
			key = cfg.APIKey
		}
		if key == "" {
			return nil
		}
		client := llm.NewOpenAIClient(key)
		if cfg.Model != "" {
			client.Model = cfg.Model
		}
		client.Retry.InitialDelay = time.Duration(cfg.RetryInitialDelay)
		client.Retry.MaxRetries = cfg.RetryMaxAttempts
		return client
	}
}
