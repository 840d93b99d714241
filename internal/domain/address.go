package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is one entry in a shopper's address book. At most one of a
// shopper's addresses carries IsDefault at any time; the repository
// mutator that sets a new default clears the flag on siblings first.
type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone" json:"phone"`
	Street     string             `bson:"street" json:"street"`
	Unit       string             `bson:"unit,omitempty" json:"unit,omitempty"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	PostalCode string             `bson:"postal_code" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
	IsDefault  bool               `bson:"is_default" json:"isDefault"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
