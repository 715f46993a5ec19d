package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"velocity/internal/model"
	"velocity/internal/orchestrator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

type Gatherer interface {
	Gather(ctx context.Context, ticker string) (*model.Batch, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HistoryStore interface {
	GetBatches(ctx context.Context, ticker string, limit, offset int) ([]model.Batch, error)
	GetBatchTotal(ctx context.Context, ticker string) (int, error)
}

// InsightHandler serves insight batches. Requests for the same ticker share
// one gather, and gathers for different tickers run one at a time.
type InsightHandler struct {
	gatherer Gatherer
	store    Pinger
	history  HistoryStore

	mu    sync.Mutex
	group singleflight.Group
}

// NewInsightHandler builds the handler; history may be nil when the cache
// backend keeps no archive.
func NewInsightHandler(gatherer Gatherer, store Pinger, history HistoryStore) *InsightHandler {
	return &InsightHandler{gatherer: gatherer, store: store, history: history}
}

func (h *InsightHandler) gather(c *gin.Context) (*model.Batch, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))

	v, err, shared := h.group.Do(ticker, func() (any, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.gatherer.Gather(context.WithoutCancel(c.Request.Context()), ticker)
	})
	if errors.Is(err, orchestrator.ErrEmptyTicker) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker is required"})
		return nil, false
	}
	if err != nil {
		slog.Error("error gathering insights", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Insight gathering failed"})
		return nil, false
	}

	if shared {
		slog.Debug("shared gather result", "ticker", ticker)
	}
	return v.(*model.Batch), true
}

func (h *InsightHandler) GetInsights(c *gin.Context) {
	batch, ok := h.gather(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toBatchResponse(*batch, c.Query("agent"), getQueryInt("limit", 0, c)))
}

// toBatchResponse keeps only the sets of agent when it is non-empty and at
// most limit insights per set when limit is positive.
func toBatchResponse(batch model.Batch, agent string, limit int) BatchResponse {
	res := BatchResponse{
		ID:        batch.ID.String(),
		Ticker:    batch.Ticker,
		CreatedAt: batch.CreatedAt.Format(time.RFC3339),
		Sets:      []InsightSetResponse{},
	}

	for _, s := range batch.Sets {
		if agent != "" && s.Agent != agent {
			continue
		}

		insights := s.Insights
		if limit > 0 && len(insights) > limit {
			insights = insights[:limit]
		}

		set := InsightSetResponse{Agent: s.Agent, Insights: make([]InsightResponse, len(insights))}
		for i, in := range insights {
			set.Insights[i] = InsightResponse{
				Heading: in.Heading,
				Body:    in.Body,
				Persona: in.Persona,
			}
		}
		res.Total += len(set.Insights)
		res.Sets = append(res.Sets, set)
	}

	return res
}

func (h *InsightHandler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History not available"})
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)
	ctx := c.Request.Context()

	batches, err := h.history.GetBatches(ctx, ticker, limit, offset)
	if err != nil {
		slog.Error("error fetching history", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.history.GetBatchTotal(ctx, ticker)
	if err != nil {
		slog.Error("error fetching history total", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := HistoryResponse{
		Batches: make([]BatchResponse, 0, len(batches)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, b := range batches {
		res.Batches = append(res.Batches, toBatchResponse(b, "", 0))
	}

	c.JSON(http.StatusOK, res)
}

func (h *InsightHandler) GetDigest(c *gin.Context) {
	batch, ok := h.gather(c)
	if !ok {
		return
	}

	c.String(http.StatusOK, batch.Digest())
}

func (h *InsightHandler) GetHealth(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		slog.Error("cache store ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"cache":  "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"cache":  "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
