package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/cache"
	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo    repository.CartRepository
	catalog repository.ProductRepository
	cache   cache.CartCache
	logger  *slog.Logger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, catalog repository.ProductRepository, cartCache cache.CartCache, logger *slog.Logger) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		cache:   cartCache,
		logger:  logger,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cart cache get error", "error", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // not found cart return empty cart
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, persistenceError("failed to load cart", errGet)
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				s.logger.Warn("cart cache set error", "error", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem snapshots the product's current catalog price into the cart.
// This is the point where "by value, not by reference" is enforced:
// later catalog edits do not follow the item into an order.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return validationError("quantity", "quantity must be at least 1")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return notFoundError("product not found")
		}
		return persistenceError("failed to load product", err)
	}
	if product.Stock <= 0 {
		return validationError("productId", "product is out of stock")
	}

	item := domain.CartItem{
		ProductID:       productID,
		Name:            product.Name,
		Image:           product.Image,
		Category:        product.Category,
		UnitPrice:       product.Price,
		DiscountedPrice: product.DiscountedPrice,
		Quantity:        quantity,
	}

	if errAdd := s.repo.AddItem(ctx, userID, item); errAdd != nil {
		s.logger.Error("repo add item error", "error", errAdd, "user_id", userID)
		return persistenceError("failed to add item", errAdd)
	}

	s.invalidateCache(userID)
	return nil
}

// UpdateQuantity with zero or less removes the line: a cart never
// stores a zero-quantity item.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, productID)
	}

	errUpdate := s.repo.UpdateItemQuantity(ctx, userID, productID, quantity)
	if errUpdate != nil {
		if errors.Is(errUpdate, repository.ErrItemNotFound) {
			return notFoundError("item not found in cart")
		}
		s.logger.Error("repo update item quantity error", "error", errUpdate, "user_id", userID)
		return persistenceError("failed to update quantity", errUpdate)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	errRemove := s.repo.RemoveItem(ctx, userID, productID)
	if errRemove != nil {
		if errors.Is(errRemove, repository.ErrCartNotFound) {
			return notFoundError("cart not found")
		}
		s.logger.Error("repo remove item error", "error", errRemove, "user_id", userID)
		return persistenceError("failed to remove item", errRemove)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		s.logger.Error("repo delete cart error", "error", errDelete, "user_id", userID)
		return persistenceError("failed to clear cart", errDelete)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cart cache invalidate error", "error", err, "user_id", userID)
	}
}
