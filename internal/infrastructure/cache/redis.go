package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

var _ ProductCache = (*RedisCache)(nil)

// RedisCache stores the product list as one JSON value.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "shop"
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    defaultTTL,
	}
}

// Connect creates a client for addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Generation returns the current list generation. A key that was never
// set is generation 0.
func (r *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

func (r *RedisCache) GetProducts(ctx context.Context, gen int64) ([]shopapi.Product, error) {
	data, err := r.client.Get(ctx, r.productsKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []shopapi.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

// SetProducts stores the list under gen. A list for a generation that has
// since been invalidated is never read again and expires with the TTL.
func (r *RedisCache) SetProducts(ctx context.Context, gen int64, products []shopapi.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}
	if err := r.client.Set(ctx, r.productsKey(gen), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate moves to the next generation and drops the previous list.
func (r *RedisCache) Invalidate(ctx context.Context) error {
	gen, err := r.client.Incr(ctx, r.generationKey()).Result()
	if err != nil {
		return fmt.Errorf("redis incr generation failed: %w", err)
	}
	if err := r.client.Del(ctx, r.productsKey(gen-1)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) generationKey() string {
	return fmt.Sprintf("%s:products:generation", r.prefix)
}

func (r *RedisCache) productsKey(gen int64) string {
	return fmt.Sprintf("%s:products:%d", r.prefix, gen)
}
