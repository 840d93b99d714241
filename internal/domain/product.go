package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Image           string             `bson:"image" json:"image"`
	Category        string             `bson:"category" json:"category"`
	Price           float64            `bson:"price" json:"price"`
	DiscountedPrice float64            `bson:"discountedPrice,omitempty" json:"discountedPrice,omitempty"`
	Stock           int                `bson:"stock" json:"stock"`
}
