package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain Redis strings.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classifyRedisError(fmt.Errorf("client.Get(%s) > %w", key, err))
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return classifyRedisError(fmt.Errorf("client.Set(%s) > %w", key, err))
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func classifyRedisError(err error) error {
	// maxmemory rejections come back as "OOM command not allowed when used memory > 'maxmemory'"
	if strings.Contains(err.Error(), "OOM ") {
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
