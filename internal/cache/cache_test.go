package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"velocity/internal/model"

	"github.com/go-playground/assert/v2"
	"pgregory.net/rapid"
)

type memStore struct {
	mu      sync.Mutex
	entries map[string]model.CacheEntry
	err     error
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]model.CacheEntry{}}
}

func (m *memStore) GetEntry(_ context.Context, namespace, key string) (*model.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.entries[namespace+"/"+key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) PutEntry(_ context.Context, namespace, key string, entry model.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[namespace+"/"+key] = entry
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestGetMissing(t *testing.T) {
	c := New(newMemStore(), model.NamespaceNews, DefaultExpiry)

	var got []string
	ok, err := c.Get(context.Background(), NewsKey("aapl"), &got)

	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)
}

func TestPutThenGetWithinWindow(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := New(newMemStore(), model.NamespaceFilings, DefaultExpiry, WithClock(clk.now))
	ctx := context.Background()

	sections := map[string]string{"risk_factors": "text"}
	assert.Equal(t, nil, c.Put(ctx, FilingKey("AAPL", "10-K"), sections))

	clk.t = clk.t.Add(299 * time.Minute)

	var got map[string]string
	ok, err := c.Get(ctx, FilingKey("AAPL", "10-K"), &got)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, sections, got)
}

func TestGetAtExpiryBoundaryIsStale(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := New(newMemStore(), model.NamespaceInsights, DefaultExpiry, WithClock(clk.now))
	ctx := context.Background()

	assert.Equal(t, nil, c.Put(ctx, BatchKey("ABC"), []string{"x"}))

	clk.t = clk.t.Add(DefaultExpiry)

	var got []string
	ok, err := c.Get(ctx, BatchKey("ABC"), &got)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)
}

func TestPutRefreshesTimestamp(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := New(newMemStore(), model.NamespaceNews, DefaultExpiry, WithClock(clk.now))
	ctx := context.Background()

	assert.Equal(t, nil, c.Put(ctx, NewsKey("ABC"), []string{"old"}))
	clk.t = clk.t.Add(400 * time.Minute)
	assert.Equal(t, nil, c.Put(ctx, NewsKey("ABC"), []string{"new"}))
	clk.t = clk.t.Add(time.Minute)

	var got []string
	ok, err := c.Get(ctx, NewsKey("ABC"), &got)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, []string{"new"}, got)
}

func TestStoreErrorPropagates(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk full")
	c := New(store, model.NamespaceNews, DefaultExpiry)

	err := c.Put(context.Background(), "k", "v")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, errors.Is(err, store.err))

	var got string
	_, err = c.Get(context.Background(), "k", &got)
	assert.Equal(t, true, errors.Is(err, store.err))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "AAPL_10-Q", FilingKey("aapl", "10-Q"))
	assert.Equal(t, "AAPL_news", NewsKey("aapl"))
	assert.Equal(t, "AAPL", BatchKey("aapl"))
}

// TestValidityWindowProperty checks that an entry reads back unchanged for
// any age below the window and reads as absent for any age at or above it.
func TestValidityWindowProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clk := &clock{t: base}
		expiry := time.Duration(rapid.IntRange(1, 1000).Draw(rt, "expiryMinutes")) * time.Minute
		c := New(newMemStore(), model.NamespaceInsights, expiry, WithClock(clk.now))
		ctx := context.Background()

		key := rapid.StringMatching(`[A-Z]{1,5}`).Draw(rt, "ticker")
		payload := rapid.SliceOf(rapid.String()).Draw(rt, "payload")

		if err := c.Put(ctx, key, payload); err != nil {
			rt.Fatal(err)
		}

		age := time.Duration(rapid.Int64Range(0, int64(2*expiry)).Draw(rt, "age"))
		clk.t = base.Add(age)

		var got []string
		ok, err := c.Get(ctx, key, &got)
		if err != nil {
			rt.Fatal(err)
		}

		if age < expiry {
			if !ok {
				rt.Fatalf("entry aged %s should be valid with window %s", age, expiry)
			}
			if len(got) != len(payload) {
				rt.Fatalf("payload length %d, want %d", len(got), len(payload))
			}
			for i := range payload {
				if got[i] != payload[i] {
					rt.Fatalf("payload[%d] = %q, want %q", i, got[i], payload[i])
				}
			}
		} else if ok {
			rt.Fatalf("entry aged %s should be stale with window %s", age, expiry)
		}
	})
}
