package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const CacheKeyPrefix = "velocity:cache"

func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis: empty url")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func CacheKey(namespace, key string) string {
	return CacheKeyPrefix + ":" + namespace + ":" + key
}
