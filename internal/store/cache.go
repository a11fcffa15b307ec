// Package store keeps an offline copy of API responses in SQLite so the
// browser can show the last known directory when the network is down.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"restobrowse/internal/types"
)

// ErrMiss is returned when nothing is cached under a key.
var ErrMiss = errors.New("not cached")

const listKey = "list"

func detailKey(id string) string { return "detail/" + id }

// Cache is a SQLite-backed response cache. It is safe for concurrent use.
type Cache struct {
	db     *sql.DB
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Open opens (creating if needed) the cache database at path. ":memory:"
// gives a private in-memory cache.
func Open(path string, opts ...Option) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Cache{db: db, path: path, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		c.logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			c.logger.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
		}
	}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	c.logger.Debug("cache opened", zap.String("path", path))
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database path.
func (c *Cache) Path() string { return c.path }

// PutList stores the full restaurant collection.
func (c *Cache) PutList(ctx context.Context, restaurants []types.Restaurant) error {
	return c.put(ctx, listKey, restaurants)
}

// List returns the cached collection and when it was stored.
func (c *Cache) List(ctx context.Context) ([]types.Restaurant, time.Time, error) {
	var rs []types.Restaurant
	at, err := c.get(ctx, listKey, &rs)
	return rs, at, err
}

// PutRestaurant stores one restaurant's detail.
func (c *Cache) PutRestaurant(ctx context.Context, r types.Restaurant) error {
	if r.ID == "" {
		return fmt.Errorf("restaurant has no id")
	}
	return c.put(ctx, detailKey(r.ID), r)
}

// Restaurant returns the cached detail for id and when it was stored.
func (c *Cache) Restaurant(ctx context.Context, id string) (types.Restaurant, time.Time, error) {
	var r types.Restaurant
	at, err := c.get(ctx, detailKey(id), &r)
	return r, at, err
}

// Stats summarises the cache contents.
type Stats struct {
	HasList     bool
	Restaurants int
	Oldest      time.Time
	Newest      time.Time
}

// Stats reports what the cache holds.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s Stats
	var lists int
	var oldest, newest sql.NullInt64
	row := c.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN key = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN key LIKE 'detail/%' THEN 1 ELSE 0 END), 0),
			MIN(fetched_at),
			MAX(fetched_at)
		FROM responses`, listKey)
	if err := row.Scan(&lists, &s.Restaurants, &oldest, &newest); err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	s.HasList = lists > 0
	if oldest.Valid {
		s.Oldest = time.UnixMilli(oldest.Int64)
	}
	if newest.Valid {
		s.Newest = time.UnixMilli(newest.Int64)
	}
	return s, nil
}

// Purge deletes entries stored more than maxAge ago and returns how many
// went.
func (c *Cache) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-maxAge).UnixMilli()
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	c.logger.Debug("cache purged", zap.Int64("removed", n), zap.Duration("max_age", maxAge))
	return n, nil
}

// Clear deletes every entry and returns how many went.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (c *Cache) put(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO responses (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, string(body), c.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string, out any) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var body string
	var at int64
	err := c.db.QueryRowContext(ctx, `SELECT body, fetched_at FROM responses WHERE key = ?`, key).Scan(&body, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrMiss
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return time.UnixMilli(at), nil
}
