// Package metadata provides the key/value repositories backing the two
// session storage scopes.
//
// Every implementation follows the same contract: Get returns (nil, nil)
// for an absent key, Delete of an absent key is not an error, and the
// *Many variants apply all keys or none where the backend allows it.
//
// Backends:
//   - SQLRepository (SQLite or Postgres): durable scope, and by default the
//     transient scope too, in its own table with expiring rows.
//   - MemoryRepository: transient scope living as long as the process.
//   - RedisRepository: transient scope shared between machines, expiring after a TTL.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
