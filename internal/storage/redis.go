package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisSlot struct {
	client *redis.Client
	key    string
}

func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

func (s *RedisSlot) Get(ctx context.Context) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *RedisSlot) Set(ctx context.Context, payload []byte) error {
	return s.client.Set(ctx, s.key, payload, 0).Err()
}

func (s *RedisSlot) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
