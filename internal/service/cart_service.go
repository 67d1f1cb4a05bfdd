package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dddddddrrrr/campus-cart/internal/cache"
	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cartCache,
	}
}

func (s *CartService) GetCart(ctx context.Context, caller Identity) (*domain.Cart, error) {
	// Use singleflight so concurrent misses for the same user hit the
	// database once.
	v, err, _ := s.sfg.Do(caller.UserID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, caller.UserID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCartWithItems(ctx, caller.UserID)
		if errors.Is(errGet, repository.ErrCartNotFound) {
			return &domain.Cart{
				UserID:    caller.UserID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), caller.UserID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) AddItem(ctx context.Context, caller Identity, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	// The product must exist before it can be staged.
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return &ProductNotFoundError{ProductID: productID}
		}
		return fmt.Errorf("load product: %w", err)
	}

	if err := s.repo.AddCartItem(ctx, caller.UserID, productID, quantity); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	s.invalidateCache(caller.UserID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, caller Identity, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	err := s.repo.UpdateCartItemQuantity(ctx, caller.UserID, productID, quantity)
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return &ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}

	s.invalidateCache(caller.UserID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, caller Identity, productID int64) error {
	err := s.repo.RemoveCartItem(ctx, caller.UserID, productID)
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return &ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.invalidateCache(caller.UserID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, caller Identity) error {
	if err := s.repo.ClearCart(ctx, caller.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.invalidateCache(caller.UserID)
	return nil
}

// InvalidateCart drops the cached cart for a user; the order workflow calls
// this after a cart checkout drained the cart inside its transaction.
func (s *CartService) InvalidateCart(userID string) {
	s.invalidateCache(userID)
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
