package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.connectwisedev.com/storefront-service/models"
)

const (
	productKeyPrefix = "product:"
	skuSetKey        = "catalog:skus"

	// Per-product TTL keeps the cache convergent with CMS edits that
	// never pass through this service.
	productTTL = 5 * time.Minute
)

// RedisClient holds the Redis connection used as an optional
// read-through cache in front of the content API.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to Redis at addr and verifies the connection.
func NewRedisClient(addr string) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password by default for local Redis
		DB:       0,  // Default DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func productKey(sku string) string {
	return productKeyPrefix + sku
}

// Product returns the cached product for sku, or nil on a cache miss.
func (c *RedisClient) Product(ctx context.Context, sku string) (*models.Product, error) {
	raw, err := c.client.Get(ctx, productKey(sku)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s from Redis: %w", productKey(sku), err)
	}

	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product %s: %w", sku, err)
	}
	return &product, nil
}

// Products returns the full cached catalog. It fails when the SKU set is
// absent or no cached entry survives, so callers fall back to the source.
func (c *RedisClient) Products(ctx context.Context) ([]models.Product, error) {
	skus, err := c.client.SMembers(ctx, skuSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from Redis: %w", skuSetKey, err)
	}
	if len(skus) == 0 {
		return nil, fmt.Errorf("no SKUs found in Redis cache set %s", skuSetKey)
	}

	keys := make([]string, len(skus))
	for i, sku := range skus {
		keys[i] = productKey(sku)
	}

	// MGET over per-product keys keeps the read path a single round trip.
	results, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to MGET products from Redis: %w", err)
	}

	var products []models.Product
	for _, res := range results {
		if res == nil {
			// Key expired or was evicted; the source fallback covers it.
			continue
		}
		raw, ok := res.(string)
		if !ok {
			slog.Warn("unexpected type from Redis MGET", "type", fmt.Sprintf("%T", res))
			continue
		}
		var product models.Product
		if err := json.Unmarshal([]byte(raw), &product); err != nil {
			slog.Warn("failed to unmarshal cached product", "err", err)
			continue
		}
		products = append(products, product)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("all cached products were invalid or missing, forcing source fetch")
	}
	return products, nil
}

// StoreProduct caches a single product under its SKU key.
func (c *RedisClient) StoreProduct(ctx context.Context, product models.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s for cache: %w", product.SKU, err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, productKey(product.SKU), raw, productTTL)
	pipe.SAdd(ctx, skuSetKey, product.SKU)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.SKU, err)
	}
	return nil
}

// StoreProducts replaces the cached catalog: every product is written
// under its SKU key and the SKU set is rebuilt to match.
func (c *RedisClient) StoreProducts(ctx context.Context, products []models.Product) error {
	pipe := c.client.Pipeline()
	skus := make([]interface{}, 0, len(products))

	for _, product := range products {
		raw, err := json.Marshal(product)
		if err != nil {
			slog.Warn("failed to marshal product for cache", "sku", product.SKU, "err", err)
			continue
		}
		pipe.Set(ctx, productKey(product.SKU), raw, productTTL)
		skus = append(skus, product.SKU)
	}

	// Rebuild the set wholesale so it accurately reflects the source.
	pipe.Del(ctx, skuSetKey)
	if len(skus) > 0 {
		pipe.SAdd(ctx, skuSetKey, skus...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for cache population: %w", err)
	}
	return nil
}
