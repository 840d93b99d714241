package repository

import (
	"context"
	"errors"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrProductNotFound = errors.New("product not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrTokenNotFound   = errors.New("token not found")
)

// OrderRepository owns persistence of orders. Each method is a single
// document write, which is the only atomicity the workflow relies on.
// Consumers define this interface, not the MongoDB implementation.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus sets the fulfillment status; when deliveredAt is
	// non-nil it also sets the delivered flag and timestamp in the
	// same write.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, deliveredAt *time.Time) (*domain.Order, error)
	// MarkPaid flips isPaid exactly once. If the order is already
	// paid it returns the stored record untouched.
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error)
}

type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, userID string, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID string) error
	DeleteCart(ctx context.Context, userID string) error
}

// ProductRepository is the read-only view of the catalog consumed by
// the cart when snapshotting prices.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
}

type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	Insert(ctx context.Context, address *domain.Address) (*domain.Address, error)
	Update(ctx context.Context, userID, id string, address domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	SetDefault(ctx context.Context, userID, id string) error
}

// TokenRepository resolves opaque bearer tokens to identities.
type TokenRepository interface {
	FindIdentity(ctx context.Context, token string) (*domain.Identity, error)
}
