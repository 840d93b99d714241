package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
)

// EventPublisher pushes order lifecycle events to the fulfillment
// side. Publishing is best-effort: a broker outage never fails the
// order write that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type OrderService struct {
	repo      repository.OrderRepository
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(repo repository.OrderRepository, publisher EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create persists a new order in pending status, unpaid. Pricing is
// stored verbatim as supplied by the checkout translation; this layer
// does not re-price against the catalog.
func (s *OrderService) Create(
	ctx context.Context,
	shopperID string,
	items []domain.OrderItem,
	address domain.ShippingAddress,
	paymentMethod string,
	pricing domain.OrderPricing,
) (*domain.Order, error) {

	if shopperID == "" {
		return nil, authorizationError("not authorized")
	}
	if len(items) == 0 {
		return nil, validationError("orderItems", "no order items")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, validationError("orderItems", "quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return nil, validationError("orderItems", "price must not be negative")
		}
		if item.ProductID == "" {
			return nil, validationError("orderItems", "product reference is required")
		}
	}
	if paymentMethod == "" {
		return nil, validationError("paymentMethod", "payment method is required")
	}

	order := &domain.Order{
		UserID:          shopperID,
		OrderItems:      items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      pricing.ItemsPrice,
		TaxPrice:        pricing.TaxPrice,
		ShippingPrice:   pricing.ShippingPrice,
		TotalPrice:      pricing.TotalPrice,
		Status:          domain.OrderStatusPending,
		IsPaid:          false,
		CreatedAt:       s.now(),
	}

	created, err := s.repo.Insert(ctx, order)
	if err != nil {
		s.logger.Error("failed to persist order",
			"error", err,
			"user_id", shopperID,
			"total_price", pricing.TotalPrice,
		)
		return nil, persistenceError("failed to create order", err)
	}

	s.logger.Info("order created",
		"order_id", created.ID.Hex(),
		"user_id", shopperID,
		"total_price", created.TotalPrice,
	)

	s.publish(ctx, created.ID.Hex(), domain.OrderCreatedEvent{
		OrderID:    created.ID.Hex(),
		UserID:     created.UserID,
		Items:      created.OrderItems,
		TotalPrice: created.TotalPrice,
		Timestamp:  created.CreatedAt,
	})

	return created, nil
}

// Get returns an order the caller is allowed to see: its owner, or
// any staff caller.
func (s *OrderService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, notFoundError("order not found")
		}
		return nil, persistenceError("failed to read order", err)
	}

	if !caller.IsStaff() && order.UserID != caller.ShopperID {
		return nil, authorizationError("not authorized")
	}

	return order, nil
}

func (s *OrderService) ListForShopper(ctx context.Context, shopperID string) ([]domain.Order, error) {
	if shopperID == "" {
		return nil, authorizationError("not authorized")
	}

	orders, err := s.repo.FindByUser(ctx, shopperID)
	if err != nil {
		return nil, persistenceError("failed to list orders", err)
	}
	return orders, nil
}

// ListAll is staff-only; the staff gate sits in the HTTP middleware,
// this is the raw read.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("failed to list orders", err)
	}
	return orders, nil
}

// TransitionStatus sets the fulfillment status to any of the five
// legal values. Sequence is not enforced; membership is. A transition
// to delivered sets the delivered flag and timestamp exactly once:
// repeating it keeps the first timestamp.
func (s *OrderService) TransitionStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, validationError("status", "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, notFoundError("order not found")
		}
		return nil, persistenceError("failed to read order", err)
	}

	var deliveredAt *time.Time
	if status == domain.OrderStatusDelivered && !order.IsDelivered {
		now := s.now()
		deliveredAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, deliveredAt)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, notFoundError("order not found")
		}
		return nil, persistenceError("failed to update order status", err)
	}

	s.logger.Info("order status updated",
		"order_id", updated.ID.Hex(),
		"status", updated.Status,
	)

	s.publish(ctx, updated.ID.Hex(), domain.OrderStatusChangedEvent{
		OrderID:   updated.ID.Hex(),
		Status:    updated.Status,
		Timestamp: s.now(),
	})

	return updated, nil
}

// ConfirmPayment records a successful gateway payment on the order,
// exactly once. A second confirmation is a no-op that returns the
// stored record; paidAt never moves once set. Fulfillment status is
// not consulted: a cancelled order may still be marked paid (refunds
// are not modeled here).
func (s *OrderService) ConfirmPayment(ctx context.Context, caller domain.Identity, id, gatewayPaymentID, payerEmail string) (*domain.Order, error) {
	if gatewayPaymentID == "" {
		return nil, validationError("id", "gateway payment id is required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, notFoundError("order not found")
		}
		return nil, persistenceError("failed to read order", err)
	}

	if !caller.IsStaff() && order.UserID != caller.ShopperID {
		return nil, authorizationError("not authorized")
	}

	if order.IsPaid {
		return order, nil
	}

	result := domain.PaymentResult{
		GatewayPaymentID: gatewayPaymentID,
		Status:           "completed",
		UpdateTime:       s.now(),
		EmailAddress:     payerEmail,
	}

	updated, err := s.repo.MarkPaid(ctx, id, result, s.now())
	if err != nil {
		// The payment already succeeded at the gateway. Losing this
		// write orphans the payment, so log everything manual
		// reconciliation needs.
		s.logger.Error("payment confirmed at gateway but order update failed",
			"error", err,
			"order_id", id,
			"user_id", order.UserID,
			"total_price", order.TotalPrice,
			"gateway_payment_id", gatewayPaymentID,
		)
		return nil, persistenceError("failed to record payment", err)
	}

	s.logger.Info("order marked paid",
		"order_id", updated.ID.Hex(),
		"gateway_payment_id", gatewayPaymentID,
	)

	s.publish(ctx, updated.ID.Hex(), domain.OrderPaidEvent{
		OrderID:          updated.ID.Hex(),
		GatewayPaymentID: gatewayPaymentID,
		TotalPrice:       updated.TotalPrice,
		Timestamp:        s.now(),
	})

	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Error("failed to publish order event", "error", err, "order_id", key)
	}
}
