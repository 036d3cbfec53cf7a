package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ytscout/ytscout-go/internal/metrics"
)

// DefaultCacheTTL applies to every key regardless of payload kind.
const DefaultCacheTTL = time.Hour

const redisKeyPrefix = "ytscout:"

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
	version   uint64
}

// ResponseCache maps query keys to previously computed results for a fixed
// TTL counted from insertion. Reads never extend an entry's life.
//
// L1 is an in-process map with lazy expiry. L2 is an optional Redis tier that
// lets results survive restarts and be shared between replicas.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	version uint64

	ttl time.Duration
	rdb *redis.Client
	now func() time.Time
	log zerolog.Logger
}

// NewResponseCache creates an L1-only cache. ttl <= 0 selects DefaultCacheTTL.
func NewResponseCache(ttl time.Duration, log zerolog.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// WithRedis enables the L2 tier. A nil client leaves the cache L1-only.
func (c *ResponseCache) WithRedis(rdb *redis.Client) *ResponseCache {
	c.rdb = rdb
	return c
}

// ConnectRedis dials redisURL and returns nil (L2 disabled) if the URL is
// empty, invalid or unreachable.
func ConnectRedis(redisURL string, log zerolog.Logger) *redis.Client {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, L2 cache disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, L2 cache disabled")
		return nil
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, L2 cache disabled")
		_ = rdb.Close()
		return nil
	}

	log.Info().Str("addr", opts.Addr).Msg("redis: connected, L2 cache enabled")
	return rdb
}

// Client returns the Redis client (for health checks). May be nil.
func (c *ResponseCache) Client() *redis.Client {
	return c.rdb
}

// Get returns the bytes stored under key. The returned slice is shared and
// must not be modified.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if c.now().Before(e.expiresAt) {
			return e.data, true
		}
		c.evict(key, e.version)
	}

	if c.rdb == nil {
		return nil, false
	}

	data, ttl, ok := c.getRemote(ctx, key)
	if !ok {
		return nil, false
	}
	c.store(key, data, ttl)
	return data, true
}

// Put stores data under key, replacing any previous entry and its deadline.
func (c *ResponseCache) Put(ctx context.Context, key string, data []byte) {
	c.store(key, data, c.ttl)

	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: L2 set failed")
	}
}

// Sweep drops every L1 entry whose deadline has passed and reports how many
// were removed. Entries replaced by a later Put carry their own deadline, so
// a sweep never removes a fresher value.
func (c *ResponseCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of L1 entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close shuts down the Redis connection.
func (c *ResponseCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *ResponseCache) store(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.entries[key] = &cacheEntry{
		data:      data,
		expiresAt: c.now().Add(ttl),
		version:   c.version,
	}
}

// evict removes key only if it still holds the entry identified by version.
func (c *ResponseCache) evict(key string, version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.version == version {
		delete(c.entries, key)
	}
}

func (c *ResponseCache) getRemote(ctx context.Context, key string) ([]byte, time.Duration, bool) {
	pipe := c.rdb.Pipeline()
	getCmd := pipe.Get(ctx, redisKeyPrefix+key)
	ttlCmd := pipe.PTTL(ctx, redisKeyPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: L2 get failed")
		return nil, 0, false
	}

	data, err := getCmd.Bytes()
	if err != nil {
		return nil, 0, false
	}
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return nil, 0, false
	}
	return data, ttl, true
}

// cacheLoad decodes the value cached under key. Each call returns a fresh
// copy, so callers cannot mutate what is stored.
func cacheLoad[T any](ctx context.Context, c *ResponseCache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		metrics.CacheMiss(keyKind(key))
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry")
		metrics.CacheMiss(keyKind(key))
		var zero T
		return zero, false
	}
	metrics.CacheHit(keyKind(key))
	return out, true
}

func cacheStore[T any](ctx context.Context, c *ResponseCache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: encode failed")
		return
	}
	c.Put(ctx, key, data)
}

// keyKind returns the prefix of a "kind:value" cache key.
func keyKind(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}
