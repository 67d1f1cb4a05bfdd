package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dddddddrrrr/campus-cart/internal/cache"
	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

func TestGetCart_CacheHit(t *testing.T) {
	cached := &domain.Cart{
		UserID: testUserID,
		Items:  []domain.CartItem{{ProductID: 1, Quantity: 2, ProductName: "Notebook"}},
	}
	repo := &MockCartRepository{GetErr: errors.New("must not reach the database")}
	svc := NewCartService(repo, catalog(), &MockCartCache{Cart: cached})

	cart, err := svc.GetCart(context.Background(), Identity{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, cached, cart)
}

func TestGetCart_CacheMissFallsThrough(t *testing.T) {
	stored := &domain.Cart{
		ID:     3,
		UserID: testUserID,
		Items:  []domain.CartItem{{ProductID: 1, Quantity: 1}},
	}
	cartCache := &MockCartCache{GetErr: cache.ErrCacheMiss}
	svc := NewCartService(&MockCartRepository{Cart: stored}, catalog(), cartCache)

	cart, err := svc.GetCart(context.Background(), Identity{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, stored, cart)

	// The refill happens on a background goroutine.
	assert.Eventually(t, func() bool {
		return cartCache.SetCalls == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGetCart_NoCartYieldsEmptyCart(t *testing.T) {
	cartCache := &MockCartCache{GetErr: cache.ErrCacheMiss}
	repo := &MockCartRepository{GetErr: repository.ErrCartNotFound}
	svc := NewCartService(repo, catalog(), cartCache)

	cart, err := svc.GetCart(context.Background(), Identity{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, testUserID, cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestGetCart_CacheErrorDegradesToDatabase(t *testing.T) {
	stored := &domain.Cart{ID: 3, UserID: testUserID}
	cartCache := &MockCartCache{GetErr: errors.New("redis down")}
	svc := NewCartService(&MockCartRepository{Cart: stored}, catalog(), cartCache)

	cart, err := svc.GetCart(context.Background(), Identity{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, stored, cart)
}

func TestAddItem_Success(t *testing.T) {
	products := catalog(
		&domain.Product{ID: 1, Name: "Notebook", Price: decimal.RequireFromString("6.00"), Stock: 10},
	)
	cartCache := &MockCartCache{}
	svc := NewCartService(&MockCartRepository{}, products, cartCache)

	err := svc.AddItem(context.Background(), Identity{UserID: testUserID}, 1, 2)

	require.NoError(t, err)
	assert.Equal(t, 1, cartCache.DeleteCalls, "cached cart must be invalidated")
}

func TestAddItem_UnknownProduct(t *testing.T) {
	cartCache := &MockCartCache{}
	svc := NewCartService(&MockCartRepository{}, catalog(), cartCache)

	err := svc.AddItem(context.Background(), Identity{UserID: testUserID}, 99, 1)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ProductID)
	assert.Equal(t, 0, cartCache.DeleteCalls)
}

func TestAddItem_NonPositiveQuantity(t *testing.T) {
	svc := NewCartService(&MockCartRepository{}, catalog(), &MockCartCache{})

	err := svc.AddItem(context.Background(), Identity{UserID: testUserID}, 1, 0)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateQuantity_ItemNotInCart(t *testing.T) {
	repo := &MockCartRepository{UpdateErr: repository.ErrCartItemNotFound}
	svc := NewCartService(repo, catalog(), &MockCartCache{})

	err := svc.UpdateQuantity(context.Background(), Identity{UserID: testUserID}, 7, 3)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(7), notFound.ProductID)
}

func TestRemoveItem_InvalidatesCache(t *testing.T) {
	cartCache := &MockCartCache{}
	svc := NewCartService(&MockCartRepository{}, catalog(), cartCache)

	err := svc.RemoveItem(context.Background(), Identity{UserID: testUserID}, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, cartCache.DeleteCalls)
}

func TestClearCart_InvalidatesCache(t *testing.T) {
	cartCache := &MockCartCache{}
	repo := &MockCartRepository{}
	svc := NewCartService(repo, catalog(), cartCache)

	err := svc.ClearCart(context.Background(), Identity{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.ClearCalls)
	assert.Equal(t, 1, cartCache.DeleteCalls)
}

func TestInvalidateCart(t *testing.T) {
	cartCache := &MockCartCache{}
	svc := NewCartService(&MockCartRepository{}, catalog(), cartCache)

	svc.InvalidateCart(testUserID)

	assert.Equal(t, 1, cartCache.DeleteCalls)
}
