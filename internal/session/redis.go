package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps the cookie record under a single Redis key, for
// deployments where the server has no stable filesystem.
type RedisBackend struct {
	redisClient *redis.Client
	key         string
	timeout     time.Duration
}

func NewRedisBackend(redisClient *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = "oda:session:cookies"
	}
	return &RedisBackend{
		redisClient: redisClient,
		key:         key,
		timeout:     5 * time.Second,
	}
}

func (b *RedisBackend) Read() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	data, err := b.redisClient.Get(ctx, b.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // no session saved yet
		}
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}
	return data, nil
}

func (b *RedisBackend) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.redisClient.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}
