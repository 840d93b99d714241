package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
)

// ShippingTiers are the three-tier shipping fee breakpoints. They are
// a business parameter, loaded from config, not an algorithm.
type ShippingTiers struct {
	FreeOver float64 // subtotal above this ships free
	LowUnder float64 // subtotal below this pays HighFee
	HighFee  float64
	MidFee   float64
}

func DefaultShippingTiers() ShippingTiers {
	return ShippingTiers{
		FreeOver: 499,
		LowUnder: 200,
		HighFee:  70,
		MidFee:   50,
	}
}

func (t ShippingTiers) Fee(subtotal float64) float64 {
	switch {
	case subtotal > t.FreeOver:
		return 0
	case subtotal < t.LowUnder:
		return t.HighFee
	default:
		return t.MidFee
	}
}

// CheckoutService turns the stored cart plus a chosen address into an
// order. The sequence is create-then-pay: the order is created unpaid
// in pending status, the client then pays via the hosted widget and
// confirms the payment against the same order.
type CheckoutService struct {
	carts     *CartService
	orders    *OrderService
	addresses repository.AddressRepository
	tiers     ShippingTiers
	taxRate   float64 // configuration hook, 0 by default
	logger    *slog.Logger
}

func NewCheckoutService(
	carts *CartService,
	orders *OrderService,
	addresses repository.AddressRepository,
	tiers ShippingTiers,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		addresses: addresses,
		tiers:     tiers,
		logger:    logger,
	}
}

// Quote prices the current cart without creating anything, so the
// client can show subtotal/shipping/total before the shopper commits.
func (s *CheckoutService) Quote(ctx context.Context, shopperID string) (*domain.OrderPricing, error) {
	cart, err := s.carts.GetCart(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, validationError("cart", "cart is empty, nothing to checkout")
	}

	pricing := s.price(cart)
	return &pricing, nil
}

// Checkout creates the order from the stored cart and clears the cart
// only after the order write succeeds. The cart surviving a failed
// checkout is deliberate: clearing is the acknowledgment that the
// order was durably created.
func (s *CheckoutService) Checkout(ctx context.Context, shopperID, addressID, paymentMethod string) (*domain.Order, error) {
	cart, err := s.carts.GetCart(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, validationError("cart", "cart is empty, nothing to checkout")
	}

	address, err := s.resolveAddress(ctx, shopperID, addressID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = domain.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Image:     item.Image,
			UnitPrice: item.EffectivePrice(),
			ProductID: item.ProductID,
		}
	}

	pricing := s.price(cart)

	order, err := s.orders.Create(ctx, shopperID, items, *address, paymentMethod, pricing)
	if err != nil {
		return nil, err
	}

	if errClear := s.carts.ClearCart(ctx, shopperID); errClear != nil {
		// The order exists; a stale cart is an inconvenience, not a
		// failure of the checkout.
		s.logger.Warn("failed to clear cart after checkout",
			"error", errClear,
			"user_id", shopperID,
			"order_id", order.ID.Hex(),
		)
	}

	return order, nil
}

func (s *CheckoutService) price(cart *domain.Cart) domain.OrderPricing {
	subtotal := cart.Subtotal()
	shipping := s.tiers.Fee(subtotal)
	tax := subtotal * s.taxRate

	return domain.OrderPricing{
		ItemsPrice:    subtotal,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    subtotal + tax + shipping,
	}
}

// resolveAddress picks the requested address, falling back to the
// shopper's default when none is named.
func (s *CheckoutService) resolveAddress(ctx context.Context, shopperID, addressID string) (*domain.ShippingAddress, error) {
	addresses, err := s.addresses.ListByUser(ctx, shopperID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, validationError("addressId", "no shipping address on file")
		}
		return nil, persistenceError("failed to load addresses", err)
	}

	var chosen *domain.Address
	for i := range addresses {
		if addressID != "" && addresses[i].ID.Hex() == addressID {
			chosen = &addresses[i]
			break
		}
		if addressID == "" && addresses[i].IsDefault {
			chosen = &addresses[i]
		}
	}
	if chosen == nil {
		return nil, validationError("addressId", "no shipping address selected")
	}

	street := chosen.Street
	if chosen.Unit != "" {
		street = street + ", " + chosen.Unit
	}

	return &domain.ShippingAddress{
		Address:    street,
		City:       chosen.City,
		PostalCode: chosen.PostalCode,
		Country:    chosen.Country,
	}, nil
}
