// Package orchestrator runs the insight agents for a ticker and caches the
// resulting batch.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"velocity/internal/agent"
	"velocity/internal/cache"
	"velocity/internal/model"
)

var ErrEmptyTicker = errors.New("empty ticker")

// BatchCache is satisfied by *cache.Cache.
type BatchCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Put(ctx context.Context, key string, v any) error
}

// Archive records every freshly gathered batch.
type Archive interface {
	SaveBatch(ctx context.Context, batch *model.Batch) error
}

type Gatherer struct {
	agents  []agent.Agent
	cache   BatchCache
	archive Archive
	now     func() time.Time
}

type Option func(*Gatherer)

func WithArchive(a Archive) Option {
	return func(g *Gatherer) { g.archive = a }
}

// NewGatherer runs the agents in the order filing, code, news, transcript.
func NewGatherer(filing, code, news, transcript agent.Agent, c BatchCache, opts ...Option) *Gatherer {
	g := &Gatherer{
		agents: []agent.Agent{filing, code, news, transcript},
		cache:  c,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Gather returns the cached batch for ticker when one is still valid and
// otherwise runs every agent and caches the result. A failing agent aborts
// the run and nothing is cached.
func (g *Gatherer) Gather(ctx context.Context, ticker string) (*model.Batch, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, ErrEmptyTicker
	}
	key := cache.BatchKey(ticker)

	var cached model.Batch
	ok, err := g.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		slog.Info("using cached insights", "ticker", ticker, "batch_id", cached.ID, "insights", cached.Count())
		return &cached, nil
	}

	start := g.now()
	sets := make([]model.InsightSet, 0, len(g.agents))
	for _, a := range g.agents {
		insights, err := a.Run(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("%s agent: %w", a.Name(), err)
		}
		sets = append(sets, model.InsightSet{Agent: a.Name(), Insights: insights})
	}

	batch := model.NewBatch(ticker, g.now(), sets)
	if err := g.cache.Put(ctx, key, batch); err != nil {
		return nil, err
	}

	if g.archive != nil {
		if err := g.archive.SaveBatch(ctx, batch); err != nil {
			slog.Warn("error archiving batch", "ticker", ticker, "batch_id", batch.ID, "error", err)
		}
	}

	slog.Info("gathered insights",
		"ticker", ticker,
		"batch_id", batch.ID,
		"insights", batch.Count(),
		"duration", g.now().Sub(start).String(),
	)
	return batch, nil
}
