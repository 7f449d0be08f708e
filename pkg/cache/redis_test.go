package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/cache"
)

func newTestCache(t *testing.T) (*cache.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := cache.NewRedisClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, mr
}

func product(sku string) models.Product {
	return models.Product{
		Sys:          models.Sys{ID: "id-" + sku},
		SKU:          sku,
		Title:        "Product " + sku,
		Model:        "M-" + sku,
		Price:        decimal.NewFromFloat(99.99),
		ReleaseDate:  "2021-03-01",
		ItemsInStock: 4,
	}
}

func skusOf(products []models.Product) []string {
	skus := make([]string, len(products))
	for i, p := range products {
		skus[i] = p.SKU
	}
	return skus
}

func TestNewRedisClient(t *testing.T) {
	t.Run("UnreachableServer", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := cache.NewRedisClient(addr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})
}

func TestProduct(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		client, _ := newTestCache(t)

		require.NoError(t, client.StoreProduct(context.Background(), product("A1")))

		got, err := client.Product(context.Background(), "A1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "id-A1", got.Sys.ID)
		assert.Equal(t, "Product A1", got.Title)
		assert.Equal(t, "99.99", got.Price.String())
	})

	t.Run("MissIsNotAnError", func(t *testing.T) {
		client, _ := newTestCache(t)

		got, err := client.Product(context.Background(), "NOPE")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("EntryExpires", func(t *testing.T) {
		client, mr := newTestCache(t)

		require.NoError(t, client.StoreProduct(context.Background(), product("A1")))
		mr.FastForward(6 * time.Minute)

		got, err := client.Product(context.Background(), "A1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestProducts(t *testing.T) {
	t.Run("ReturnsStoredCatalog", func(t *testing.T) {
		client, _ := newTestCache(t)

		stored := []models.Product{product("A1"), product("B2"), product("C3")}
		require.NoError(t, client.StoreProducts(context.Background(), stored))

		got, err := client.Products(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A1", "B2", "C3"}, skusOf(got))
	})

	t.Run("EmptyCacheFails", func(t *testing.T) {
		client, _ := newTestCache(t)

		_, err := client.Products(context.Background())
		require.Error(t, err, "callers fall back to the source on a cold cache")
	})

	t.Run("EvictedEntryIsSkipped", func(t *testing.T) {
		client, mr := newTestCache(t)

		require.NoError(t, client.StoreProducts(context.Background(),
			[]models.Product{product("A1"), product("B2")}))
		mr.Del("product:A1")

		got, err := client.Products(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"B2"}, skusOf(got))
	})

	t.Run("CorruptEntryIsSkipped", func(t *testing.T) {
		client, mr := newTestCache(t)

		require.NoError(t, client.StoreProducts(context.Background(),
			[]models.Product{product("A1"), product("B2")}))
		require.NoError(t, mr.Set("product:A1", "not json"))

		got, err := client.Products(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"B2"}, skusOf(got))
	})

	t.Run("AllEntriesGoneFails", func(t *testing.T) {
		client, mr := newTestCache(t)

		require.NoError(t, client.StoreProducts(context.Background(),
			[]models.Product{product("A1"), product("B2")}))
		mr.FastForward(6 * time.Minute) // product keys expire, the SKU set has no TTL

		_, err := client.Products(context.Background())
		require.Error(t, err)
	})

	t.Run("StoreRebuildsSKUSetWholesale", func(t *testing.T) {
		client, _ := newTestCache(t)

		require.NoError(t, client.StoreProducts(context.Background(),
			[]models.Product{product("A1"), product("B2")}))
		require.NoError(t, client.StoreProducts(context.Background(),
			[]models.Product{product("C3")}))

		got, err := client.Products(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"C3"}, skusOf(got), "stale SKUs must not survive a repopulate")
	})
}
