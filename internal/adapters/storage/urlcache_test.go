package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryURLCacheExpiresEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryURLCache(4, 50*time.Minute)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "a.jpg", "https://signed/a", 0)
	got, ok := cache.Get(ctx, "a.jpg")
	require.True(t, ok)
	assert.Equal(t, "https://signed/a", got)

	now = now.Add(50 * time.Minute)
	_, ok = cache.Get(ctx, "a.jpg")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryURLCacheClampsTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryURLCache(4, 10*time.Minute)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "a.jpg", "u", time.Hour)
	now = now.Add(11 * time.Minute)
	_, ok := cache.Get(ctx, "a.jpg")
	assert.False(t, ok)
}

func TestMemoryURLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewMemoryURLCache(2, time.Hour)
	ctx := context.Background()

	cache.Set(ctx, "a", "ua", 0)
	cache.Set(ctx, "b", "ub", 0)
	_, _ = cache.Get(ctx, "a")
	cache.Set(ctx, "c", "uc", 0)

	_, okA := cache.Get(ctx, "a")
	_, okB := cache.Get(ctx, "b")
	_, okC := cache.Get(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, cache.Len())
}

func TestMemoryURLCacheUpdatesExistingKey(t *testing.T) {
	cache := NewMemoryURLCache(2, time.Hour)
	ctx := context.Background()

	cache.Set(ctx, "a", "old", 0)
	cache.Set(ctx, "a", "new", 0)

	got, ok := cache.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryURLCacheConcurrentAccess(t *testing.T) {
	cache := NewMemoryURLCache(8, time.Hour)
	ctx := context.Background()
	done := make(chan struct{})

	for w := 0; w < 4; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (w*200+i)%16)
				cache.Set(ctx, key, key, 0)
				_, _ = cache.Get(ctx, key)
			}
		}(w)
	}
	for w := 0; w < 4; w++ {
		<-done
	}
	assert.LessOrEqual(t, cache.Len(), 8)
}

func TestRedisURLCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisURLCache(client, "", 10*time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "face.jpg")
	assert.False(t, ok)

	cache.Set(ctx, "face.jpg", "https://signed/face", time.Hour)
	got, ok := cache.Get(ctx, "face.jpg")
	require.True(t, ok)
	assert.Equal(t, "https://signed/face", got)
	assert.Equal(t, 10*time.Minute, mr.TTL("signed-url:face.jpg"))

	mr.FastForward(11 * time.Minute)
	_, ok = cache.Get(ctx, "face.jpg")
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
