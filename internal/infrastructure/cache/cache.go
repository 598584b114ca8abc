// Package cache keeps raw backend responses for a freshness window and persists
// them to a single file so repeated CLI runs can reuse them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FileName is the name of the persisted cache inside the temp directory.
const FileName = "tvtid_cache.json"

// formatVersion is bumped whenever the persisted layout changes; other versions load as empty.
const formatVersion = 1

// DefaultPath returns the well-known cache location in the temp directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), FileName)
}

type entry struct {
	Payload   []byte    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

type document struct {
	Version int              `json:"version"`
	Entries map[string]entry `json:"entries"`
}

// Cache is a TTL memoization layer for backend payloads.
type Cache struct {
	fs     afero.Fs
	path   string
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	// saveMu serializes writes of the persisted file.
	saveMu sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger used for persistence problems.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a cache persisted at path on fs and loads any live entries already there.
// An empty path keeps the cache in memory only.
func New(fs afero.Fs, path string, opts ...Option) *Cache {
	c := &Cache{
		fs:      fs,
		path:    path,
		now:     time.Now,
		logger:  zap.NewNop(),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.load()
	return c
}

// Key derives a cache key from an endpoint and its query. Parameter names and the
// values of each parameter are sorted and de-duplicated, so the same request spelled
// in a different order maps to the same key.
func Key(endpoint string, query url.Values) string {
	endpoint = strings.Trim(endpoint, "/")
	if len(query) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte('?')
	for i, name := range names {
		values := slices.Clone(query[name])
		sort.Strings(values)
		values = slices.Compact(values)
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		for j, v := range values {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// GetOrFetch returns the live payload for key or calls fetch and stores the result
// until now+ttl. A ttl of zero or less bypasses the cache. Errors from fetch are
// returned unchanged and nothing is stored. Concurrent calls for the same key share
// one fetch. The shared fetch does not inherit cancellation, so fetch must bound
// itself; a caller whose ctx ends stops waiting and gets ctx.Err().
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl time.Duration) ([]byte, error) {
	if ttl <= 0 {
		return fetch(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if payload, ok := c.lookup(key); ok {
		c.logger.Debug("cache hit", zap.String("key", key))
		return payload, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// Another caller may have stored the key while we waited.
		if payload, ok := c.lookup(key); ok {
			return payload, nil
		}

		c.logger.Debug("cache miss", zap.String("key", key))
		payload, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.store(key, payload, ttl)
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]byte)), nil
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if now.Before(e.ExpiresAt) {
			n++
		}
	}
	return n
}

// Purge drops all entries and removes the persisted file.
func (c *Cache) Purge() error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	if c.path == "" {
		return nil
	}
	if err := c.fs.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !now.Before(e.ExpiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return slices.Clone(e.Payload), true
}

func (c *Cache) store(key string, payload []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		Payload:   slices.Clone(payload),
		ExpiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	doc := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.save(doc); err != nil {
		c.logger.Warn("failed to persist response cache", zap.String("path", c.path), zap.Error(err))
	}
}

// snapshotLocked copies the live entries. c.mu must be held.
func (c *Cache) snapshotLocked() document {
	now := c.now()
	doc := document{Version: formatVersion, Entries: make(map[string]entry, len(c.entries))}
	for k, e := range c.entries {
		if now.Before(e.ExpiresAt) {
			doc.Entries[k] = e
		}
	}
	return doc
}

func (c *Cache) load() {
	if c.path == "" {
		return
	}

	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("ignoring unreadable response cache", zap.String("path", c.path), zap.Error(err))
		}
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("ignoring corrupt response cache", zap.String("path", c.path), zap.Error(err))
		return
	}
	if doc.Version != formatVersion {
		c.logger.Warn("ignoring response cache with unknown version",
			zap.String("path", c.path), zap.Int("version", doc.Version))
		return
	}

	now := c.now()
	c.mu.Lock()
	for k, e := range doc.Entries {
		if now.Before(e.ExpiresAt) {
			c.entries[k] = e
		}
	}
	c.mu.Unlock()

	c.logger.Debug("loaded response cache", zap.String("path", c.path), zap.Int("entries", len(c.entries)))
}

func (c *Cache) save(doc document) error {
	if c.path == "" {
		return nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := c.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	tmp := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := c.fs.Rename(tmp, c.path); err != nil {
		_ = c.fs.Remove(tmp)
		return fmt.Errorf("failed to replace cache: %w", err)
	}
	return nil
}
