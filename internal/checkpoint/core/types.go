// Package core defines the transport contract shared by checkpoint drivers.
package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// Driver identifies a concrete checkpoint transport implementation.
type Driver string

const (
	// DriverFilesystem stores checkpoints as files under a root directory.
	DriverFilesystem Driver = "fs" // local filesystem (default, dev)
	// DriverS3 stores checkpoints as objects in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps checkpoints in process memory.
	DriverMemory Driver = "memory" // tests
	// DriverSQLite stores checkpoints in an embedded SQLite database.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores checkpoints in a Postgres table.
	DriverPostgres Driver = "postgres"
)

// Info describes a stored checkpoint.
type Info struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size_bytes"`
	ETag      string    `json:"etag,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transport moves opaque snapshot blobs to and from durable storage.
// Put replaces any blob already stored under key.
type Transport interface {
	Put(ctx context.Context, key string, blob []byte) (Info, error)
	Get(ctx context.Context, key string) (Info, []byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

var (
	// ErrNotFound is returned by Get when no blob is stored under the key.
	ErrNotFound = errors.New("checkpoint: not found")
	// ErrInvalidKey is returned for empty, absolute or escaping keys.
	ErrInvalidKey = errors.New("checkpoint: invalid key")
)

// CleanKey normalises key into a slash separated relative path, rejecting
// keys that are empty, absolute or climb out of the transport root.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q is not relative", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q contains '..'", ErrInvalidKey, key)
		}
	}
	return path.Clean(key), nil
}

// ETag is the content hash every driver reports for a blob.
func ETag(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}
