package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cartCache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cartCache, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "b3c9a1f0-5f2e-4d7a-9c3b-2e8f6a1d4c70"

	cart := &domain.Cart{
		ID:     3,
		UserID: userID,
		Items: []domain.CartItem{
			{ProductID: 1, Quantity: 2, ProductName: "Notebook"},
			{ProductID: 2, Quantity: 3, ProductName: "Pen"},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(userID), string(cartJSON))

	result, err := cartCache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "Notebook", result.Items[0].ProductName)
}

func TestGet_CacheMiss(t *testing.T) {
	cartCache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cartCache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("user"), "{not valid json")

	result, err := cartCache.Get(context.Background(), "user")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_RoundTrip(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user-set"

	cart := &domain.Cart{
		UserID: userID,
		Items:  []domain.CartItem{{ProductID: 7, Quantity: 1}},
	}

	require.NoError(t, cartCache.Set(ctx, userID, cart))

	// TTL carries the base plus jitter.
	ttl := mr.TTL(cacheKey(userID))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)

	result, err := cartCache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(7), result.Items[0].ProductID)
}

func TestDelete(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user-del"

	cart := &domain.Cart{UserID: userID}
	require.NoError(t, cartCache.Set(ctx, userID, cart))

	require.NoError(t, cartCache.Delete(ctx, userID))
	assert.False(t, mr.Exists(cacheKey(userID)))

	_, err := cartCache.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_BreakerOpensOnRepeatedFailures(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mr.Close() // every call now fails

	// Drive the breaker open; once open, errors degrade to cache misses.
	for i := 0; i < 10; i++ {
		cartCache.Get(ctx, "user")
	}

	_, err := cartCache.Get(ctx, "user")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
