package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAddressRepository struct {
	collection *mongo.Collection
}

func NewMongoAddressRepository(db *mongo.Database) AddressRepository {
	return &mongoAddressRepository{
		collection: db.Collection("addresses"),
	}
}

func (m *mongoAddressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []domain.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}

	return addresses, nil
}

func (m *mongoAddressRepository) Insert(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	address.CreatedAt = time.Now()

	// The shopper's first address becomes the default.
	count, err := m.collection.CountDocuments(ctx, bson.M{"user_id": address.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to count addresses: %w", err)
	}
	if count == 0 {
		address.IsDefault = true
	}

	if _, err := m.collection.InsertOne(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to insert address: %w", err)
	}

	if address.IsDefault && count > 0 {
		if err := m.clearSiblingDefaults(ctx, address.UserID, address.ID); err != nil {
			return nil, err
		}
	}

	return address, nil
}

func (m *mongoAddressRepository) Update(ctx context.Context, userID, id string, address domain.Address) (*domain.Address, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	set := bson.M{
		"name":        address.Name,
		"phone":       address.Phone,
		"street":      address.Street,
		"unit":        address.Unit,
		"city":        address.City,
		"state":       address.State,
		"postal_code": address.PostalCode,
		"country":     address.Country,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Address
	err = m.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return &updated, nil
}

func (m *mongoAddressRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAddressNotFound
	}

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// SetDefault clears the default flag on all of the shopper's addresses
// first, then marks the requested one. Two writes; the clear must run
// first so at most one default survives any interleaving.
func (m *mongoAddressRepository) SetDefault(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAddressNotFound
	}

	if err := m.clearSiblingDefaults(ctx, userID, oid); err != nil {
		return err
	}

	result, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": bson.M{"is_default": true}})
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func (m *mongoAddressRepository) clearSiblingDefaults(ctx context.Context, userID string, keep primitive.ObjectID) error {
	_, err := m.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "_id": bson.M{"$ne": keep}},
		bson.M{"$set": bson.M{"is_default": false}})
	if err != nil {
		return fmt.Errorf("failed to clear default addresses: %w", err)
	}
	return nil
}
