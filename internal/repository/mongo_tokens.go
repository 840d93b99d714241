package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type tokenDocument struct {
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	Role      string    `bson:"role"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type mongoTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoTokenRepository reads the token collection the identity
// provider writes at login. This service only ever resolves tokens.
func NewMongoTokenRepository(db *mongo.Database) TokenRepository {
	return &mongoTokenRepository{
		collection: db.Collection("tokens"),
	}
}

func (m *mongoTokenRepository) FindIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	var doc tokenDocument
	err := m.collection.FindOne(ctx, bson.M{"token": token}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if !doc.ExpiresAt.IsZero() && doc.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenNotFound
	}

	role := domain.RoleShopper
	if doc.Role == string(domain.RoleStaff) {
		role = domain.RoleStaff
	}

	return &domain.Identity{ShopperID: doc.UserID, Role: role}, nil
}
