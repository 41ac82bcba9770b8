package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &RedisRepository{client: client, ttl: ttl}, mr
}

func TestLinkCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	link := &model.Link{
		ID:        42,
		UserID:    7,
		Title:     "Blog",
		URL:       "https://blog.example.com",
		ShortCode: "abc1234",
		IsActive:  true,
	}
	require.NoError(t, cache.SetLink(ctx, link))

	got, err := cache.GetLink(ctx, "abc1234")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, link.URL, got.URL)
	assert.True(t, got.IsActive)
}

func TestLinkCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	got, err := cache.GetLink(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLinkCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	link := &model.Link{ID: 42, ShortCode: "abc1234", URL: "https://blog.example.com"}
	require.NoError(t, cache.SetLink(ctx, link))
	require.NoError(t, cache.DeleteLink(ctx, "abc1234"))

	got, err := cache.GetLink(ctx, "abc1234")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Evicting an absent code is a no-op.
	assert.NoError(t, cache.DeleteLink(ctx, "abc1234"))
	assert.NoError(t, cache.DeleteLink(ctx, ""))
}

func TestLinkCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	link := &model.Link{ID: 42, ShortCode: "abc1234", URL: "https://blog.example.com"}
	require.NoError(t, cache.SetLink(ctx, link))

	mr.FastForward(2 * time.Minute)

	got, err := cache.GetLink(ctx, "abc1234")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLinkCacheReadRefreshesTTL(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	link := &model.Link{ID: 42, ShortCode: "abc1234", URL: "https://blog.example.com"}
	require.NoError(t, cache.SetLink(ctx, link))

	// Reading inside the window pushes the expiry out again.
	mr.FastForward(45 * time.Second)
	got, err := cache.GetLink(ctx, "abc1234")
	require.NoError(t, err)
	require.NotNil(t, got)

	mr.FastForward(45 * time.Second)
	got, err = cache.GetLink(ctx, "abc1234")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
