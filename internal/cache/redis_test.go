package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
	}

	return cache, mr, cleanup
}

func testCatalog() []*domain.Item {
	return []*domain.Item{
		{
			ID:        uuid.New(),
			Code:      "ITM_1",
			Name:      "Widget",
			Price:     decimal.RequireFromString("19.99"),
			Cost:      decimal.RequireFromString("7.50"),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

func TestGet_Hit(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	items := testCatalog()

	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, mr.Set(catalogKey, string(data)))

	result, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, items[0].ID, result[0].ID)
	assert.True(t, result[0].Price.Equal(items[0].Price))
}

func TestGet_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptPayload(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(catalogKey, "not-json"))

	_, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_ThenGet(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	items := testCatalog()

	require.NoError(t, cache.Set(ctx, items))
	assert.True(t, mr.Exists(catalogKey))

	result, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, items[0].Code, result[0].Code)
}

func TestInvalidate(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, testCatalog()))

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(catalogKey))

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
