package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the console's keys in a shared Redis.
const DefaultRedisPrefix = "plasticos:session:"

// RedisRepository stores values as Redis strings under a key prefix. Every
// write refreshes the TTL, so an idle session expires on its own.
type RedisRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisRepository wraps client. A zero ttl stores keys without expiry.
func NewRedisRepository(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) key(k string) string {
	return r.prefix + k
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// SetMany writes all values in a MULTI/EXEC block.
func (r *RedisRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range values {
			p.Set(ctx, r.key(k), v, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata batch: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete metadata batch: %w", err)
	}
	return nil
}

func (r *RedisRepository) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (r *RedisRepository) List(ctx context.Context) (map[string][]byte, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	result := make(map[string][]byte, len(keys))
	for _, full := range keys {
		v, err := r.client.Get(ctx, full).Bytes()
		if errors.Is(err, redis.Nil) {
			// expired between SCAN and GET
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list metadata: %w", err)
		}
		result[strings.TrimPrefix(full, r.prefix)] = v
	}
	return result, nil
}
