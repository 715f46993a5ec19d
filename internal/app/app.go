// Package app builds the pipeline from a config.Config.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"velocity/db"
	"velocity/internal/agent"
	"velocity/internal/cache"
	"velocity/internal/config"
	"velocity/internal/data"
	"velocity/internal/model"
	"velocity/internal/orchestrator"
	"velocity/internal/repository"
	"velocity/internal/sandbox"
	"velocity/pkg/edgar"
	"velocity/pkg/fmp"
	"velocity/pkg/llm"
	"velocity/pkg/news"
)

// Store is the durable cache backend.
type Store interface {
	cache.Store
	Ping(ctx context.Context) error
}

// Stores are the durable backends behind one pipeline. History is nil for
// backends that keep no batch archive.
type Stores struct {
	Cache   Store
	History *repository.BatchRepository
	close   func() error
}

func (s *Stores) Close() error {
	return s.close()
}

// OpenStores connects the configured cache backend.
func OpenStores(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := db.ConnectRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Stores{Cache: repository.NewRedisCacheRepository(client), close: client.Close}, nil

	case config.CachePostgres:
		conn, err := db.Connect(cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return sqlStores(ctx, conn, repository.DialectPostgres)

	default:
		conn, err := db.OpenSQLite(filepath.Join(cfg.Cache.Dir, "velocity.db"))
		if err != nil {
			return nil, err
		}
		return sqlStores(ctx, conn, repository.DialectSQLite)
	}
}

func sqlStores(ctx context.Context, conn *sql.DB, dialect string) (*Stores, error) {
	cacheRepo, err := repository.NewCacheRepository(ctx, conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}

	batchRepo, err := repository.NewBatchRepository(ctx, conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Stores{Cache: cacheRepo, History: batchRepo, close: conn.Close}, nil
}

// NewAccess wires the data layer to FMP, EDGAR and the configured news
// provider.
func NewAccess(cfg config.Config, store Store) *data.Access {
	provider := fmp.NewClient(cfg.Data.FMPAPIKey)

	return data.New(data.Options{
		Provider:    provider,
		Filings:     edgar.NewClient(cfg.Data.SECUserAgent),
		News:        NewsClient(cfg, provider),
		FilingCache: cache.New(store, model.NamespaceFilings, cfg.Cache.Expiry),
		NewsCache:   cache.New(store, model.NamespaceNews, cfg.Cache.Expiry),
	})
}

func NewsClient(cfg config.Config, provider *fmp.Client) news.Client {
	switch cfg.Data.NewsProvider {
	case config.NewsFinnhub:
		return news.NewFinnHubClient(cfg.Data.FinnhubAPIKey)
	case config.NewsAlphaVantage:
		return news.NewAlphaVantageClient(cfg.Data.AlphaVantageAPIKey)
	case config.NewsMassive:
		return news.NewMassiveClient(cfg.Data.MassiveAPIKey)
	default:
		return news.NewFMPClient(provider)
	}
}

func NewGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	key := cfg.LLMAPIKey()
	if key == "" {
		return nil, fmt.Errorf("no API key for llm provider %q", cfg.LLM.Provider)
	}

	switch cfg.LLM.Provider {
	case config.LLMAnthropic:
		return llm.NewAnthropicClient(key), nil
	case config.LLMGemini:
		client, err := llm.NewGenAIClient(ctx, key)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return llm.NewOpenAIClient(key), nil
	}
}

// NewExecutor runs generated programs through the sandbox command of the
// configured velocity binary.
func NewExecutor(cfg config.Config) (*sandbox.Executor, error) {
	bin := cfg.Sandbox.Binary
	if bin == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
		bin = self
	}

	return &sandbox.Executor{
		Command: []string{bin, "sandbox"},
		Suffix:  ".go",
		Timeout: cfg.Sandbox.Timeout,
	}, nil
}

// Pipeline is a ready-to-use gatherer plus the stores behind it.
type Pipeline struct {
	Gatherer *orchestrator.Gatherer
	Stores   *Stores
}

func (p *Pipeline) Close() error {
	return p.Stores.Close()
}

func NewPipeline(ctx context.Context, cfg config.Config) (*Pipeline, error) {
	gen, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exec, err := NewExecutor(cfg)
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := stores.Cache

	var opts []orchestrator.Option
	if stores.History != nil {
		opts = append(opts, orchestrator.WithArchive(stores.History))
	}

	access := NewAccess(cfg, store)
	picker := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	fast := func(n int) agent.Options {
		return agent.Options{Count: n, Model: cfg.LLM.FastModel, Temperature: cfg.LLM.Temperature}
	}
	strong := agent.Options{Count: cfg.Agents.CodeCount, Model: cfg.LLM.StrongModel, Temperature: cfg.LLM.CodeTemperature}

	gatherer := orchestrator.NewGatherer(
		agent.NewFilingAgent(gen, access, picker, fast(cfg.Agents.FilingCount)),
		agent.NewCodeAgent(gen, exec, picker, strong),
		agent.NewNewsAgent(gen, access, picker, fast(cfg.Agents.NewsCount)),
		agent.NewTranscriptAgent(gen, access, fast(cfg.Agents.TranscriptCount)),
		cache.New(store, model.NamespaceInsights, cfg.Cache.Expiry),
		opts...,
	)

	slog.Info("pipeline ready",
		"llm", cfg.LLM.Provider,
		"news", cfg.Data.NewsProvider,
		"cache", cfg.Cache.Backend,
	)
	return &Pipeline{Gatherer: gatherer, Stores: stores}, nil
}

// SetupLogging installs the JSON handler as the default logger on w.
func SetupLogging(cfg config.Config, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}
