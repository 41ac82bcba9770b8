package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VyankateshKedar/sparkAppBackend/internal/config"
	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

const (
	linkCachePrefix = "link:"
	defaultCacheTTL = 1 * time.Hour
)

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(cfg *config.RedisConfig, cacheTTL time.Duration) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &RedisRepository{client: client, ttl: cacheTTL}, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) Client() *redis.Client {
	return r.client
}

// GetLink returns a cached link by short code, refreshing its TTL on read.
// A cache miss is (nil, nil).
func (r *RedisRepository) GetLink(ctx context.Context, code string) (*model.Link, error) {
	key := linkCachePrefix + code

	data, err := r.client.GetEx(ctx, key, r.ttl).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get link from cache: %w", err)
	}

	var link model.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached link: %w", err)
	}

	return &link, nil
}

// SetLink caches a link under its short code
func (r *RedisRepository) SetLink(ctx context.Context, link *model.Link) error {
	key := linkCachePrefix + link.ShortCode

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set link in cache: %w", err)
	}

	return nil
}

// DeleteLink evicts a cached link, used after updates and deletes so stale
// redirects never outlive the database row
func (r *RedisRepository) DeleteLink(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}

	if err := r.client.Del(ctx, linkCachePrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to delete link from cache: %w", err)
	}

	return nil
}

func (r *RedisRepository) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
