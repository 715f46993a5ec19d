// Package cache implements time-bounded caching on top of a durable entry
// store. Expiry is lazy: stale entries stay in the store and read as absent.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"velocity/internal/model"
)

// DefaultExpiry is shared by every keyspace.
const DefaultExpiry = 300 * time.Minute

type Store interface {
	GetEntry(ctx context.Context, namespace, key string) (*model.CacheEntry, error)
	PutEntry(ctx context.Context, namespace, key string, entry model.CacheEntry) error
}

type Cache struct {
	store     Store
	namespace string
	expiry    time.Duration
	now       func() time.Time
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store Store, namespace string, expiry time.Duration, opts ...Option) *Cache {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	c := &Cache{
		store:     store,
		namespace: namespace,
		expiry:    expiry,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Namespace() string {
	return c.namespace
}

// Get decodes the entry for key into dst and reports whether it was valid.
// Absent and stale entries both report false.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	entry, err := c.store.GetEntry(ctx, c.namespace, key)
	if err != nil {
		return false, fmt.Errorf("cache %s get %s: %w", c.namespace, key, err)
	}

	if entry == nil {
		return false, nil
	}

	if c.now().Sub(entry.WrittenAt) >= c.expiry {
		return false, nil
	}

	if err := json.Unmarshal(entry.Payload, dst); err != nil {
		return false, fmt.Errorf("cache %s decode %s: %w", c.namespace, key, err)
	}
	return true, nil
}

func (c *Cache) Put(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache %s encode %s: %w", c.namespace, key, err)
	}

	entry := model.CacheEntry{Payload: payload, WrittenAt: c.now()}
	if err := c.store.PutEntry(ctx, c.namespace, key, entry); err != nil {
		return fmt.Errorf("cache %s put %s: %w", c.namespace, key, err)
	}
	return nil
}

func FilingKey(ticker, form string) string {
	return strings.ToUpper(ticker) + "_" + form
}

func NewsKey(ticker string) string {
	return strings.ToUpper(ticker) + "_news"
}

func BatchKey(ticker string) string {
	return strings.ToUpper(ticker)
}
