package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "scout:session"

// RedisStore keeps sessions in Redis so several bot processes can share them.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client. An empty prefix uses DefaultRedisPrefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Get(ctx context.Context, submitterID int64) (*Session, bool, error) {
	data, err := r.client.Get(ctx, r.key(submitterID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("session decode: %w", err)
	}
	return &s, true, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	// No expiry: abandoned sessions stay until the submitter restarts.
	if err := r.client.Set(ctx, r.key(s.SubmitterID), data, 0).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, submitterID int64) error {
	if err := r.client.Del(ctx, r.key(submitterID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (r *RedisStore) key(submitterID int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, submitterID)
}
