package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"velocity/internal/model"
	"velocity/internal/orchestrator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeGatherer struct {
	batch   *model.Batch
	err     error
	calls   atomic.Int32
	tickers chan string
	release chan struct{}
}

func (f *fakeGatherer) Gather(ctx context.Context, ticker string) (*model.Batch, error) {
	f.calls.Add(1)
	if f.tickers != nil {
		f.tickers <- ticker
	}
	if f.release != nil {
		<-f.release
	}
	if ticker == "" {
		return nil, orchestrator.ErrEmptyTicker
	}
	return f.batch, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func testBatch() *model.Batch {
	return model.NewBatch("ABC", time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), []model.InsightSet{
		{Agent: model.AgentFiling, Insights: []model.Insight{
			{Heading: "Debt maturities cluster in 2027", Body: "Sixty percent of notes mature within 18 months.", Agent: model.AgentFiling, Persona: "risk_factors_10k"},
		}},
		{Agent: model.AgentNews, Insights: []model.Insight{
			{Heading: "Guidance raised twice", Body: "Both raises beat consensus.", Agent: model.AgentNews, Persona: "Momentum Analyst"},
			{Heading: "CFO departure", Body: "Turnover follows a restatement.", Agent: model.AgentNews, Persona: "Governance Analyst"},
		}},
	})
}

type fakeHistory struct {
	batches []model.Batch
	total   int
	limit   int
	offset  int
	err     error
}

func (f *fakeHistory) GetBatches(ctx context.Context, ticker string, limit, offset int) ([]model.Batch, error) {
	f.limit, f.offset = limit, offset
	return f.batches, f.err
}

func (f *fakeHistory) GetBatchTotal(ctx context.Context, ticker string) (int, error) {
	return f.total, f.err
}

func newTestRouter(g Gatherer, p Pinger) *gin.Engine {
	return newHistoryRouter(g, p, nil)
}

func newHistoryRouter(g Gatherer, p Pinger, history HistoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInsightHandler(g, p, history)
	r.GET("/insights/:ticker", h.GetInsights)
	r.GET("/insights/:ticker/digest", h.GetDigest)
	r.GET("/insights/:ticker/history", h.GetHistory)
	r.GET("/health", h.GetHealth)
	return r
}

func TestGetInsights_ReturnsBatch(t *testing.T) {
	g := &fakeGatherer{batch: testBatch()}
	r := newTestRouter(g, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res BatchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "ABC", res.Ticker)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, len(res.Sets))
	assert.Equal(t, "2026-10-17T09:00:00Z", res.CreatedAt)
	assert.Equal(t, "Debt maturities cluster in 2027", res.Sets[0].Insights[0].Heading)
}

func TestGetInsights_AgentFilterAndLimit(t *testing.T) {
	g := &fakeGatherer{batch: testBatch()}
	r := newTestRouter(g, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC?agent=news&limit=1", nil)
	r.ServeHTTP(w, req)

	var res BatchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res.Sets))
	assert.Equal(t, model.AgentNews, res.Sets[0].Agent)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "Momentum Analyst", res.Sets[0].Insights[0].Persona)
}

func TestGetInsights_InvalidLimitUsesDefault(t *testing.T) {
	g := &fakeGatherer{batch: testBatch()}
	r := newTestRouter(g, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC?limit=many", nil)
	r.ServeHTTP(w, req)

	var res BatchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 3, res.Total)
}

func TestGetInsights_GatherError(t *testing.T) {
	g := &fakeGatherer{err: errors.New("openai API error: 500")}
	r := newTestRouter(g, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetInsights_BlankTicker(t *testing.T) {
	g := &fakeGatherer{batch: testBatch()}
	r := newTestRouter(g, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/%20", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDigest(t *testing.T) {
	g := &fakeGatherer{batch: testBatch()}
	r := newTestRouter(g, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC/digest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testBatch().Digest(), w.Body.String())
}

func TestGetInsights_ConcurrentRequestsShareGather(t *testing.T) {
	g := &fakeGatherer{
		batch:   testBatch(),
		tickers: make(chan string, 2),
		release: make(chan struct{}),
	}
	r := newTestRouter(g, &fakePinger{})

	var wg sync.WaitGroup
	codes := make([]int, 2)
	request := func(i int) {
		defer wg.Done()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/insights/ABC", nil))
		codes[i] = w.Code
	}

	wg.Add(2)
	go request(0)
	assert.Equal(t, "ABC", <-g.tickers)
	go request(1)
	time.Sleep(100 * time.Millisecond)
	close(g.release)
	wg.Wait()

	assert.Equal(t, int32(1), g.calls.Load())
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
}

func TestGetHealth_Healthy(t *testing.T) {
	r := newTestRouter(&fakeGatherer{}, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	r := newTestRouter(&fakeGatherer{}, &fakePinger{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unhealthy", res["status"])
}

func TestGetHistory_Paginates(t *testing.T) {
	history := &fakeHistory{batches: []model.Batch{*testBatch(), *testBatch()}, total: 7}
	r := newHistoryRouter(&fakeGatherer{}, &fakePinger{}, history)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC/history?limit=500&offset=-3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res HistoryResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, len(res.Batches))
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 100, res.Limit)
	assert.Equal(t, 0, res.Offset)
	assert.Equal(t, 100, history.limit)
	assert.Equal(t, 3, res.Batches[0].Total)
}

func TestGetHistory_DefaultLimit(t *testing.T) {
	history := &fakeHistory{}
	r := newHistoryRouter(&fakeGatherer{}, &fakePinger{}, history)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC/history", nil)
	r.ServeHTTP(w, req)

	var res HistoryResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 0, len(res.Batches))
}

func TestGetHistory_DBError(t *testing.T) {
	history := &fakeHistory{err: errors.New("DB down")}
	r := newHistoryRouter(&fakeGatherer{}, &fakePinger{}, history)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC/history", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHistory_Unavailable(t *testing.T) {
	r := newTestRouter(&fakeGatherer{}, &fakePinger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/insights/ABC/history", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
