package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/cache"
	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockOrderRepository struct {
	m      sync.RWMutex
	orders map[string]*domain.Order
	err    error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *mockOrderRepository) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	stored := *order
	stored.OrderItems = append([]domain.OrderItem(nil), order.OrderItems...)
	m.orders[order.ID.Hex()] = &stored
	return order, nil
}

func (m *mockOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) FindByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) FindAll(context.Context) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Order
	for _, order := range m.orders {
		result = append(result, *order)
	}
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, deliveredAt *time.Time) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = status
	if deliveredAt != nil {
		order.IsDelivered = true
		order.DeliveredAt = deliveredAt
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) MarkPaid(_ context.Context, id string, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if !order.IsPaid {
		order.IsPaid = true
		order.PaidAt = &paidAt
		order.PaymentResult = &result
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) get(id string) *domain.Order {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.orders[id]
}

func (m *mockOrderRepository) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

type mockPublisher struct {
	m      sync.Mutex
	events []any
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, _ string, event any) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) published() []any {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]any(nil), m.events...)
}

type mockCartRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCartRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepository) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{UserID: userID}
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == item.ProductID {
			m.cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockCartRepository) UpdateItemQuantity(_ context.Context, _ string, productID string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockCartRepository) RemoveItem(_ context.Context, _ string, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	for i, item := range m.cart.Items {
		if item.ProductID == productID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item not found")
}

func (m *mockCartRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockCartRepository) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockProductRepository struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	err      error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *mockProductRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) ListProducts(context.Context, string) ([]domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Product
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProductRepository) setPrice(id string, price float64) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[id].Price = price
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockAddressRepository struct {
	m         sync.RWMutex
	addresses []domain.Address
	err       error
}

func (m *mockAddressRepository) ListByUser(_ context.Context, userID string) ([]domain.Address, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Address
	for _, a := range m.addresses {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAddressRepository) Insert(_ context.Context, address *domain.Address) (*domain.Address, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	m.addresses = append(m.addresses, *address)
	return address, nil
}

func (m *mockAddressRepository) Update(_ context.Context, _, _ string, _ domain.Address) (*domain.Address, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAddressRepository) Delete(context.Context, string, string) error {
	return fmt.Errorf("not implemented")
}

func (m *mockAddressRepository) SetDefault(context.Context, string, string) error {
	return fmt.Errorf("not implemented")
}
