// Package postgres provides a checkpoint transport stored in a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"adaptercore/internal/checkpoint/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/adaptercore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store keeps one row per checkpoint in the checkpoints table.
type Store struct {
	db *sql.DB
}

// New opens a Postgres transport using dsn (falls back to defaultDSN) and
// ensures the checkpoints table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS checkpoints (
		key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL,
		etag TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure checkpoints table: %w", err)
	}
	return nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

func (s *Store) Put(ctx context.Context, key string, blob []byte) (core.Info, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return core.Info{}, err
	}
	info := core.Info{Key: k, Size: int64(len(blob)), ETag: core.ETag(blob), UpdatedAt: time.Now().UTC()}
	if blob == nil {
		blob = []byte{}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO checkpoints(key, payload, etag, updated_at) VALUES($1,$2,$3,$4)
		ON CONFLICT(key) DO UPDATE SET payload=EXCLUDED.payload, etag=EXCLUDED.etag, updated_at=EXCLUDED.updated_at`,
		k, blob, info.ETag, info.UpdatedAt.UnixNano())
	if err != nil {
		return core.Info{}, fmt.Errorf("upsert %s: %w", k, err)
	}
	return info, nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Info, []byte, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	var (
		blob    []byte
		etag    string
		updated int64
	)
	err = s.db.QueryRowContext(ctx, `SELECT payload, etag, updated_at FROM checkpoints WHERE key = $1`, k).
		Scan(&blob, &etag, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, nil, fmt.Errorf("get %s: %w", k, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("select %s: %w", k, err)
	}
	return core.Info{Key: k, Size: int64(len(blob)), ETag: etag, UpdatedAt: time.Unix(0, updated).UTC()}, blob, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE key = $1`, k)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", k, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, octet_length(payload), etag, updated_at FROM checkpoints WHERE starts_with(key, $1) ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var infos []core.Info
	for rows.Next() {
		var (
			info    core.Info
			updated int64
		)
		if err := rows.Scan(&info.Key, &info.Size, &info.ETag, &updated); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		info.UpdatedAt = time.Unix(0, updated).UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}
	return infos, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
