package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
)

// ProductCache is a read-through cache over catalog lookups. Misses and
// cache errors fall through to the database; writes invalidate.
type ProductCache interface {
	Get(ctx context.Context, jan string) (*entity.Product, bool, error)
	Set(ctx context.Context, product *entity.Product, ttl time.Duration) error
	Invalidate(ctx context.Context, jan string) error
}

// NoopProductCache disables caching; every lookup goes to the database.
type NoopProductCache struct{}

func (NoopProductCache) Get(_ context.Context, _ string) (*entity.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(_ context.Context, _ *entity.Product, _ time.Duration) error {
	return nil
}

func (NoopProductCache) Invalidate(_ context.Context, _ string) error {
	return nil
}

type RedisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache connects a redis-backed product cache
func NewRedisProductCache(addr string, password string, db int) *RedisProductCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisProductCache{client: client}
}

func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func key(jan string) string {
	return "product:" + jan
}

func (c *RedisProductCache) Get(ctx context.Context, jan string) (*entity.Product, bool, error) {
	val, err := c.client.Get(ctx, key(jan)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var product entity.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, product *entity.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(product.Jan), payload, ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, jan string) error {
	return c.client.Del(ctx, key(jan)).Err()
}
