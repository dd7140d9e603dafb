// Package cache persists file digests between runs so unchanged files are
// not rehashed. Entries are keyed by path and algorithm and validated
// against the file's size and modification time.
package cache

import (
	"crypto/sha1"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// Cache is a SQLite-backed digest store bound to one algorithm. It
// implements hasher.DigestSource. Lookups and stores never fail a run: on
// database errors the caller simply rehashes.
type Cache struct {
	db        *sql.DB
	algorithm string
}

// DefaultPath returns the cache database location for a canonical root
// directory: one database per root, under the user cache directory.
func DefaultPath(root string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache directory: %w", err)
	}
	key := sha1.Sum([]byte(root))
	return filepath.Join(base, "checksums", hex.EncodeToString(key[:])+".db"), nil
}

// Open opens (creating if necessary) the cache database at path, bound to
// the named algorithm. Pass ":memory:" for an ephemeral cache.
func Open(path, algorithm string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return &Cache{db: db, algorithm: algorithm}, nil
}

// Get returns the stored digest for the file if the entry still matches the
// file's size and modification time.
func (c *Cache) Get(path string, size int64, modTime time.Time) (string, bool) {
	var digest string
	err := c.db.QueryRow(
		`SELECT digest FROM digests WHERE path = ? AND algorithm = ? AND size = ? AND mtime_ns = ?`,
		path, c.algorithm, size, modTime.UnixNano(),
	).Scan(&digest)
	switch {
	case err == sql.ErrNoRows:
		return "", false
	case err != nil:
		log.Debug().Err(err).Str("file", path).Msg("cache lookup failed")
		return "", false
	}
	return digest, true
}

// Put records the digest for the file's current size and modification time,
// replacing any previous entry for the same path and algorithm.
func (c *Cache) Put(path string, size int64, modTime time.Time, digest string) {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO digests (path, algorithm, size, mtime_ns, digest) VALUES (?, ?, ?, ?, ?)`,
		path, c.algorithm, size, modTime.UnixNano(), digest,
	)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("cache store failed")
	}
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
