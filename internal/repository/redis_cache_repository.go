package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"velocity/db"
	"velocity/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisCacheRepository keeps one hash per entry. Keys carry no Redis TTL;
// staleness is decided by the reader.
type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{client: client}
}

func (r *RedisCacheRepository) GetEntry(ctx context.Context, namespace, key string) (*model.CacheEntry, error) {
	fields, err := r.client.HGetAll(ctx, db.CacheKey(namespace, key)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, nil
	}

	writtenAt, err := strconv.ParseInt(fields["written_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis cache entry %s: bad written_at: %w", key, err)
	}

	return &model.CacheEntry{
		Payload:   []byte(fields["payload"]),
		WrittenAt: time.UnixMilli(writtenAt),
	}, nil
}

func (r *RedisCacheRepository) PutEntry(ctx context.Context, namespace, key string, entry model.CacheEntry) error {
	return r.client.HSet(ctx, db.CacheKey(namespace, key),
		"payload", entry.Payload,
		"written_at", entry.WrittenAt.UnixMilli(),
	).Err()
}

func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
