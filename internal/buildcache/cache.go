package buildcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/peterbourgon/diskv/v3"
)

var (
	// ErrMiss reports a key with no live entry. Expired and corrupt entries
	// read as misses and are erased on the way out.
	ErrMiss        = errors.New("buildcache: miss")
	ErrDirRequired = errors.New("buildcache: directory is required")
	ErrKeyRequired = errors.New("buildcache: key is required")
)

// defaultCacheSizeMax bounds the in-memory read-through cache diskv keeps in
// front of the files.
const defaultCacheSizeMax = 8 * 1024 * 1024

// Config sizes the on-disk cache.
type Config struct {
	// Dir is the cache root. Entries fan out underneath it by key digest.
	Dir string

	// DefaultTTL applies to Set calls that pass no TTL. Zero stores entries
	// without expiry.
	DefaultTTL time.Duration

	// CacheSizeMax overrides diskv's in-memory cache budget in bytes.
	CacheSizeMax uint64
}

// Option configures the cache.
type Option func(*Cache)

// WithLogger sets the cache logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the expiry clock.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache is a disk-backed CacheProvider. Values round-trip through JSON, so
// strings come back as strings and structured values come back as the
// generic JSON shapes.
type Cache struct {
	d          *diskv.Diskv
	defaultTTL time.Duration
	now        func() time.Time
	logger     interfaces.Logger
}

var _ interfaces.CacheProvider = (*Cache)(nil)

type envelope struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}

// New opens a cache rooted at cfg.Dir, creating directories lazily on first
// write.
func New(cfg Config, opts ...Option) (*Cache, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, ErrDirRequired
	}
	sizeMax := cfg.CacheSizeMax
	if sizeMax == 0 {
		sizeMax = defaultCacheSizeMax
	}

	cache := &Cache{
		defaultTTL: cfg.DefaultTTL,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cache)
		}
	}
	cache.d = diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: digestToPath,
		InverseTransform:  pathToDigest,
		CacheSizeMax:      sizeMax,
	})
	return cache, nil
}

// Get returns the live value stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return nil, ErrKeyRequired
	}

	id := digest(normalized)
	data, err := c.d.Read(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMiss, normalized)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.evict(id, normalized, "corrupt")
		return nil, fmt.Errorf("%w: %s", ErrMiss, normalized)
	}
	if !env.ExpiresAt.IsZero() && c.now().After(env.ExpiresAt) {
		c.evict(id, normalized, "expired")
		return nil, fmt.Errorf("%w: %s", ErrMiss, normalized)
	}

	var value any
	if err := json.Unmarshal(env.Value, &value); err != nil {
		c.evict(id, normalized, "corrupt")
		return nil, fmt.Errorf("%w: %s", ErrMiss, normalized)
	}
	return value, nil
}

// Set stores value under key. A zero TTL falls back to the configured
// default; when both are zero the entry never expires.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return ErrKeyRequired
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("buildcache: encode value for %s: %w", normalized, err)
	}
	env := envelope{
		Key:      normalized,
		Value:    raw,
		StoredAt: c.now().UTC(),
	}
	if ttl > 0 {
		env.ExpiresAt = env.StoredAt.Add(ttl)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("buildcache: encode entry for %s: %w", normalized, err)
	}
	if err := c.d.Write(digest(normalized), data); err != nil {
		return fmt.Errorf("buildcache: write %s: %w", normalized, err)
	}
	return nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return ErrKeyRequired
	}
	id := digest(normalized)
	if !c.d.Has(id) {
		return nil
	}
	if err := c.d.Erase(id); err != nil {
		return fmt.Errorf("buildcache: delete %s: %w", normalized, err)
	}
	return nil
}

// Clear drops every entry.
func (c *Cache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.d.EraseAll(); err != nil {
		return fmt.Errorf("buildcache: clear: %w", err)
	}
	return nil
}

// Prune walks the store and erases expired entries, returning how many it
// removed. Corrupt entries are removed too.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed := 0
	for id := range c.d.Keys(ctx.Done()) {
		data, err := c.d.Read(id)
		if err != nil {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.evict(id, env.Key, "corrupt")
			removed++
			continue
		}
		if !env.ExpiresAt.IsZero() && c.now().After(env.ExpiresAt) {
			c.evict(id, env.Key, "expired")
			removed++
		}
	}
	if err := ctx.Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (c *Cache) evict(id, key, reason string) {
	if err := c.d.Erase(id); err != nil {
		c.logger.Warn("buildcache.evict_failed", "key", key, "reason", reason, "error", err)
		return
	}
	c.logger.Debug("buildcache.evicted", "key", key, "reason", reason)
}

func digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// digestToPath fans entries out under a two character prefix directory so
// large caches avoid one flat dir.
func digestToPath(id string) *diskv.PathKey {
	if len(id) <= 2 {
		return &diskv.PathKey{FileName: id}
	}
	return &diskv.PathKey{
		Path:     []string{id[:2]},
		FileName: id[2:],
	}
}

func pathToDigest(pathKey *diskv.PathKey) string {
	return strings.Join(pathKey.Path, "") + pathKey.FileName
}
