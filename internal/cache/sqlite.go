package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
)

// SQLite is the durable cache tier. Suggestion lists are stored as JSON
// alongside a unix expiry timestamp; expired and corrupt rows are evicted
// lazily on read.
type SQLite struct {
	db   *sql.DB
	now  func() time.Time
	path string
}

// NewSQLite opens (and if needed creates) the cache database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	c := &SQLite{db: db, path: dbPath, now: time.Now}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

func (c *SQLite) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS suggestions (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_suggestions_expires ON suggestions(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// Get retrieves a non-expired entry. Expired rows are deleted and reported
// as misses; rows whose payload fails to decode are treated the same way.
func (c *SQLite) Get(ctx context.Context, key string) ([]string, bool) {
	var (
		raw       string
		expiresAt int64
	)

	err := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM suggestions WHERE key = ?`, key,
	).Scan(&raw, &expiresAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	if c.now().Unix() >= expiresAt {
		c.evict(ctx, key)
		return nil, false
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		slog.Warn("discarding corrupt cache entry",
			"key", key, "error", fmt.Errorf("%w: %w", common.ErrCacheCorrupted, err))
		c.evict(ctx, key)
		return nil, false
	}

	return values, true
}

// Set stores an entry, replacing any previous value for the key. Each write
// is a single atomic upsert.
func (c *SQLite) Set(ctx context.Context, key string, values []string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(values)
	if err != nil {
		slog.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO suggestions (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, key, string(raw), c.now().Add(ttl).Unix())
	if err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *SQLite) evict(ctx context.Context, key string) {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM suggestions WHERE key = ?`, key); err != nil {
		slog.Warn("cache eviction failed", "key", key, "error", err)
	}
}

// Size returns the number of stored entries, expired ones included.
func (c *SQLite) Size(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM suggestions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// Clear removes all entries.
func (c *SQLite) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM suggestions`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *SQLite) Close() error {
	return c.db.Close()
}
