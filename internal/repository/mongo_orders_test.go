package repository

import (
	"context"
	"testing"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupOrderTestDB(t *testing.T) (OrderRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoOrderRepository(db)

	mongoRepo := repo.(*mongoOrderRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func sampleOrder(userID string) *domain.Order {
	return &domain.Order{
		UserID: userID,
		OrderItems: []domain.OrderItem{
			{Name: "Organic Honey", Quantity: 2, UnitPrice: 100, ProductID: "prod-1"},
		},
		ShippingAddress: domain.ShippingAddress{
			Address:    "12 Hill Road",
			City:       "Dehradun",
			PostalCode: "248001",
			Country:    "India",
		},
		PaymentMethod: "card",
		ItemsPrice:    200,
		ShippingPrice: 50,
		TotalPrice:    250,
		Status:        domain.OrderStatusPending,
	}
}

func TestInsert_AssignsIDAndCreatedAt(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	created, err := repo.Insert(ctx, sampleOrder("user123"))
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "user123", got.UserID)
	assert.Equal(t, 250.0, got.TotalPrice)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.False(t, got.IsPaid)
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, "prod-1", got.OrderItems[0].ProductID)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = repo.FindByID(ctx, "64f1f77bcf86cd799439aaaa")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFindByUser_OnlyOwnOrders(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	_, err := repo.Insert(ctx, sampleOrder("user123"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, sampleOrder("user123"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, sampleOrder("other"))
	require.NoError(t, err)

	orders, err := repo.FindByUser(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "user123", o.UserID)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateStatus_SetsDeliveredFields(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	created, err := repo.Insert(ctx, sampleOrder("user123"))
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, created.ID.Hex(), domain.OrderStatusProcessing, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, updated.Status)
	assert.False(t, updated.IsDelivered)
	assert.Nil(t, updated.DeliveredAt)

	deliveredAt := time.Now().UTC().Truncate(time.Millisecond)
	updated, err = repo.UpdateStatus(ctx, created.ID.Hex(), domain.OrderStatusDelivered, &deliveredAt)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, updated.Status)
	assert.True(t, updated.IsDelivered)
	require.NotNil(t, updated.DeliveredAt)
	assert.WithinDuration(t, deliveredAt, *updated.DeliveredAt, time.Second)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	_, err := repo.UpdateStatus(context.Background(), "64f1f77bcf86cd799439aaaa", domain.OrderStatusShipped, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMarkPaid_FirstWriteWins(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	ctx := context.Background()
	created, err := repo.Insert(ctx, sampleOrder("user123"))
	require.NoError(t, err)

	first := domain.PaymentResult{
		GatewayPaymentID: "pay_001",
		Status:           "captured",
		EmailAddress:     "shopper@example.com",
	}
	firstAt := time.Now().UTC().Truncate(time.Millisecond)

	paid, err := repo.MarkPaid(ctx, created.ID.Hex(), first, firstAt)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaymentResult)
	assert.Equal(t, "pay_001", paid.PaymentResult.GatewayPaymentID)
	require.NotNil(t, paid.PaidAt)
	assert.WithinDuration(t, firstAt, *paid.PaidAt, time.Second)

	// A second confirmation matches nothing and returns the stored state.
	second := domain.PaymentResult{GatewayPaymentID: "pay_002", Status: "captured"}
	again, err := repo.MarkPaid(ctx, created.ID.Hex(), second, firstAt.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, again.IsPaid)
	assert.Equal(t, "pay_001", again.PaymentResult.GatewayPaymentID)
	assert.WithinDuration(t, firstAt, *again.PaidAt, time.Second)
}

func TestMarkPaid_NotFound(t *testing.T) {
	repo, cleanup := setupOrderTestDB(t)
	defer cleanup()

	_, err := repo.MarkPaid(context.Background(), "64f1f77bcf86cd799439aaaa", domain.PaymentResult{GatewayPaymentID: "pay_001"}, time.Now())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
