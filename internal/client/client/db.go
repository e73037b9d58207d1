package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/plasticoslc/console/internal/client/migrations"
	"github.com/plasticoslc/console/internal/client/repositories/metadata"
)

// Repositories are the two storage scopes of the persisted session.
type Repositories struct {
	// Transient holds the bearer token.
	Transient metadata.Repository
	// Durable holds the cached user, roles and permissions.
	Durable metadata.Repository

	closers []func() error
}

// Close releases the database and Redis connections.
func (r *Repositories) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// StorageOptions select the storage backends.
type StorageOptions struct {
	// DatabaseDSN is a SQLite file path or a postgres:// URL.
	DatabaseDSN string
	// RedisURL, when set, moves the transient scope to Redis.
	RedisURL string
	// EphemeralToken keeps the token in process memory only, so every run
	// starts logged out. Ignored when RedisURL is set.
	EphemeralToken bool
	// TransientTTL is the token expiry in the SQL table or Redis. Zero keeps
	// it until logout.
	TransientTTL time.Duration
}

// IsPostgresDSN reports whether dsn selects the Postgres backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// RunMigrations applies the embedded migrations for the given backend.
func RunMigrations(ctx context.Context, db *sql.DB, postgres bool) error {
	dialect := database.DialectSQLite3
	var root fs.FS = migrations.SQLite
	dir := "sqlite"
	if postgres {
		dialect = database.DialectPostgres
		root = migrations.Postgres
		dir = "postgres"
	}

	fsys, err := fs.Sub(root, dir)
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens the durable database and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	driver := "sqlite"
	pg := IsPostgresDSN(dsn)
	if pg {
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if !pg {
		// one writer; avoids SQLITE_BUSY between the session's transactions
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, pg); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRepositories builds both storage scopes.
func OpenRepositories(ctx context.Context, opts StorageOptions) (*Repositories, error) {
	db, err := InitDatabase(ctx, opts.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	repos := &Repositories{closers: []func() error{db.Close}}
	newSQL := metadata.NewSQLiteRepository
	if IsPostgresDSN(opts.DatabaseDSN) {
		newSQL = metadata.NewPostgresRepository
	}
	repos.Durable = newSQL(db)

	switch {
	case opts.RedisURL != "":
	case opts.EphemeralToken:
		repos.Transient = metadata.NewMemoryRepository()
		return repos, nil
	default:
		repos.Transient = newSQL(db, metadata.WithTable(metadata.TransientTable), metadata.WithTTL(opts.TransientTTL))
		return repos, nil
	}

	ropts, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		_ = repos.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	repos.closers = append(repos.closers, rdb.Close)
	repos.Transient = metadata.NewRedisRepository(rdb, metadata.DefaultRedisPrefix, opts.TransientTTL)
	return repos, nil
}
