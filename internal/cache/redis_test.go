package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
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

func testCart(userID string) *domain.Cart {
	return &domain.Cart{
		UserID: userID,
		Items: []domain.CartItem{
			{ProductID: "prod-1", Name: "Organic Honey", UnitPrice: 100, Quantity: 2},
			{ProductID: "prod-2", Name: "Ghee", UnitPrice: 600, DiscountedPrice: 450, Quantity: 1},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestGet_Success(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"
	cart := testCart(userID)

	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:"+userID, string(data)))

	got, err := cartCache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, 450.0, got.Items[1].DiscountedPrice)
}

func TestGet_Miss(t *testing.T) {
	cartCache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cartCache.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptPayload(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set("cart:user123", "{not json"))

	_, err := cartCache.Get(context.Background(), "user123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_RoundTrip(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cart := testCart("user123")

	require.NoError(t, cartCache.Set(ctx, "user123", cart))
	assert.True(t, mr.Exists("cart:user123"))

	got, err := cartCache.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)

	ttl := mr.TTL("cart:user123")
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestDelete_RemovesKey(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cartCache.Set(ctx, "user123", testCart("user123")))
	require.True(t, mr.Exists("cart:user123"))

	require.NoError(t, cartCache.Delete(ctx, "user123"))
	assert.False(t, mr.Exists("cart:user123"))
}

func TestDelete_MissingKeyIsFine(t *testing.T) {
	cartCache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, cartCache.Delete(context.Background(), "nobody"))
}
