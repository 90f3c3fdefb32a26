// Package sqlite provides a checkpoint transport stored in an embedded SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"adaptercore/internal/checkpoint/core"
)

// Store keeps one row per checkpoint in the checkpoints table.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database at path and ensures the
// checkpoints table exists.
func New(path string) (*Store, error) {
	if path == "" {
		path = "adaptercore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS checkpoints (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		etag TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create checkpoints table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

func (s *Store) Put(ctx context.Context, key string, blob []byte) (core.Info, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return core.Info{}, err
	}
	info := core.Info{Key: k, Size: int64(len(blob)), ETag: core.ETag(blob), UpdatedAt: time.Now().UTC()}
	if blob == nil {
		blob = []byte{}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO checkpoints(key,payload,etag,updated_at) VALUES(?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, etag=excluded.etag, updated_at=excluded.updated_at`,
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
	err = s.db.QueryRowContext(ctx, `SELECT payload, etag, updated_at FROM checkpoints WHERE key = ?`, k).
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE key = ?`, k)
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
	rows, err := s.db.QueryContext(ctx, `SELECT key, length(payload), etag, updated_at FROM checkpoints
		WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
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
			return nil, fmt.Errorf("scan: %w", err)
		}
		info.UpdatedAt = time.Unix(0, updated).UTC()
		if strings.HasPrefix(info.Key, prefix) {
			infos = append(infos, info)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}
	return infos, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
