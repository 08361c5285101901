package sessionctx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// contextKeyPrefix namespaces context bindings in the Redis keyspace.
const contextKeyPrefix = "vision:ctx:"

// RedisStore keeps session bindings in Redis as JSON values under
// namespaced keys. Bindings have no TTL — a session's binding lives
// until it is overwritten or the session is deleted.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis instance at redisURL and
// verifies the connection before returning.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("sessionctx: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("sessionctx: connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: contextKeyPrefix}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: contextKeyPrefix}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Get returns the session's binding, or nil if none is set.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Context, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessionctx: lookup binding: %w", err)
	}

	var binding Context
	if err := json.Unmarshal([]byte(data), &binding); err != nil {
		return nil, fmt.Errorf("sessionctx: unmarshal binding: %w", err)
	}
	return &binding, nil
}

// Set replaces the session's binding.
func (s *RedisStore) Set(ctx context.Context, sessionID string, binding Context) error {
	data, err := json.Marshal(binding)
	if err != nil {
		return fmt.Errorf("sessionctx: marshal binding: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("sessionctx: save binding: %w", err)
	}
	return nil
}

// Delete removes the session's binding, if any.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("sessionctx: delete binding: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
