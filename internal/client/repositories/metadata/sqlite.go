package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/plasticoslc/console/internal/dbx"
)

const (
	// DurableTable holds the cached user, roles and permissions.
	DurableTable = "metadata"
	// TransientTable holds the bearer token. Its rows carry expires_at.
	TransientTable = "transient_metadata"
)

// dialect holds the statements that differ between SQL backends.
type dialect struct {
	get    string
	set    string
	delete string
	list   string
}

// sqliteDialect builds the statements for table. Expiring statements take
// the current time (unix ms) as their last argument and skip stale rows.
func sqliteDialect(table string, expiring bool) dialect {
	if expiring {
		return dialect{
			get: fmt.Sprintf(`SELECT value FROM %s WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`, table),
			set: fmt.Sprintf(`INSERT INTO %s (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`, table),
			delete: fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, table),
			list:   fmt.Sprintf(`SELECT key, value FROM %s WHERE expires_at IS NULL OR expires_at > ?`, table),
		}
	}
	return dialect{
		get: fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, table),
		set: fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, table),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, table),
		list:   fmt.Sprintf(`SELECT key, value FROM %s`, table),
	}
}

func postgresDialect(table string, expiring bool) dialect {
	if expiring {
		return dialect{
			get: fmt.Sprintf(`SELECT value FROM %s WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`, table),
			set: fmt.Sprintf(`INSERT INTO %s (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()`, table),
			delete: fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, table),
			list:   fmt.Sprintf(`SELECT key, value FROM %s WHERE expires_at IS NULL OR expires_at > $1`, table),
		}
	}
	return dialect{
		get: fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, table),
		set: fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, table),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, table),
		list:   fmt.Sprintf(`SELECT key, value FROM %s`, table),
	}
}

// SQLOption customizes a SQLRepository.
type SQLOption func(*SQLRepository)

// WithTable stores rows in table instead of DurableTable.
func WithTable(table string) SQLOption {
	return func(r *SQLRepository) { r.table = table }
}

// WithTTL makes every row expire ttl after its last write. Expired rows read
// as absent. The table needs an expires_at column; TransientTable has one.
func WithTTL(ttl time.Duration) SQLOption {
	return func(r *SQLRepository) { r.ttl = ttl }
}

// SQLRepository stores key/value rows in a SQL table.
type SQLRepository struct {
	db    *sql.DB
	table string
	ttl   time.Duration
	q     dialect
	now   func() time.Time
}

func NewSQLiteRepository(db *sql.DB, opts ...SQLOption) *SQLRepository {
	return newSQLRepository(db, sqliteDialect, opts)
}

func NewPostgresRepository(db *sql.DB, opts ...SQLOption) *SQLRepository {
	return newSQLRepository(db, postgresDialect, opts)
}

func newSQLRepository(db *sql.DB, build func(string, bool) dialect, opts []SQLOption) *SQLRepository {
	r := &SQLRepository{db: db, table: DurableTable, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	r.q = build(r.table, r.expiring())
	return r
}

func (r *SQLRepository) expiring() bool {
	return r.ttl > 0
}

func (r *SQLRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := []any{key}
	if r.expiring() {
		args = append(args, r.now().UnixMilli())
	}

	var value []byte
	err := r.db.QueryRowContext(ctx, r.q.get, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.set(ctx, r.db, key, value)
}

func (r *SQLRepository) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	args := []any{key, value}
	if r.expiring() {
		args = append(args, r.now().Add(r.ttl).UnixMilli())
	}
	if _, err := db.ExecContext(ctx, r.q.set, args...); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// SetMany writes all values in one transaction, in key order.
func (r *SQLRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if err := r.set(ctx, tx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	return r.delete(ctx, r.db, key)
}

func (r *SQLRepository) delete(ctx context.Context, db dbx.DBTX, key string) error {
	if _, err := db.ExecContext(ctx, r.q.delete, key); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// DeleteMany removes all keys in one transaction.
func (r *SQLRepository) DeleteMany(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if err := r.delete(ctx, tx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns every live row.
func (r *SQLRepository) List(ctx context.Context) (map[string][]byte, error) {
	var args []any
	if r.expiring() {
		args = append(args, r.now().UnixMilli())
	}

	rows, err := r.db.QueryContext(ctx, r.q.list, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}
