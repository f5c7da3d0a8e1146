package storage

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// URLCache stores signed URLs by object key until shortly before they expire.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, url string, ttl time.Duration)
}

type memoryEntry struct {
	key       string
	url       string
	expiresAt time.Time
}

// MemoryURLCache is a process-local LRU with per-entry expiry.
type MemoryURLCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	entries  map[string]*list.Element
	now      func() time.Time
}

// NewMemoryURLCache creates a cache holding at most capacity entries, each for
// at most ttl.
func NewMemoryURLCache(capacity int, ttl time.Duration) *MemoryURLCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryURLCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

func (c *MemoryURLCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	entry := el.Value.(*memoryEntry)
	if !c.now().Before(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return "", false
	}
	c.order.MoveToFront(el)
	return entry.url, true
}

func (c *MemoryURLCache) Set(_ context.Context, key, url string, ttl time.Duration) {
	if ttl <= 0 || ttl > c.ttl {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.url = url
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, url: url, expiresAt: expiresAt})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}
}

// Len returns the number of cached entries, expired ones included.
func (c *MemoryURLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// RedisURLCache shares signed URLs between instances. Redis handles expiry;
// capacity is bounded by the server's eviction policy.
type RedisURLCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisURLCache wraps an existing client.
func NewRedisURLCache(client *redis.Client, prefix string, ttl time.Duration) *RedisURLCache {
	if prefix == "" {
		prefix = "signed-url:"
	}
	return &RedisURLCache{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *RedisURLCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores the URL. Write errors are ignored.
func (c *RedisURLCache) Set(ctx context.Context, key, url string, ttl time.Duration) {
	if ttl <= 0 || ttl > c.ttl {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, url, ttl).Err()
}
