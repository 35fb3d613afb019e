package flash

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "catalog:flash:"

// RedisStore shares messages between server instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID, message string) error {
	return s.client.Set(ctx, redisKeyPrefix+sessionID, message, MessageTTL).Err()
}

func (s *RedisStore) Pop(ctx context.Context, sessionID string) (string, error) {
	message, err := s.client.GetDel(ctx, redisKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return message, err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
