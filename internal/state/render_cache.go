// Package state persists build state between runs. Currently that is the
// render cache: a SQLite table mapping post source paths to content
// fingerprints so unchanged posts are not re-rendered.
package state

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RenderCache records which source fingerprint produced the current output
// for each post.
type RenderCache struct {
	db *sql.DB
}

// OpenRenderCache opens (and if needed creates) the cache database at dbPath.
// Use ":memory:" for an in-memory cache in tests.
func OpenRenderCache(dbPath string) (*RenderCache, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	cache := &RenderCache{db: db}
	if err := cache.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return cache, nil
}

func (c *RenderCache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		source_path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		rendered_at INTEGER NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the stored fingerprint for a source path, or "" if absent.
func (c *RenderCache) Get(sourcePath string) (string, error) {
	var fingerprint string
	err := c.db.QueryRow(
		`SELECT fingerprint FROM renders WHERE source_path = ?`, sourcePath,
	).Scan(&fingerprint)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query render cache: %w", err)
	}
	return fingerprint, nil
}

// Put stores or replaces the fingerprint for a source path.
func (c *RenderCache) Put(sourcePath, fingerprint string) error {
	_, err := c.db.Exec(
		`INSERT INTO renders (source_path, fingerprint, rendered_at) VALUES (?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET fingerprint = excluded.fingerprint, rendered_at = excluded.rendered_at`,
		sourcePath, fingerprint, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("update render cache: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *RenderCache) Close() error {
	return c.db.Close()
}

// Fingerprint computes the content fingerprint used as the cache key value.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
