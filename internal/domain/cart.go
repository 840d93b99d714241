package domain

import "time"

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"userId"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

// CartItem snapshots the catalog price at the moment the shopper adds
// the product. DiscountedPrice is zero when no discount applies.
type CartItem struct {
	ProductID       string    `bson:"product_id" json:"productId"`
	Name            string    `bson:"name" json:"name"`
	Image           string    `bson:"image" json:"image"`
	Category        string    `bson:"category" json:"category"`
	UnitPrice       float64   `bson:"unit_price" json:"unitPrice"`
	DiscountedPrice float64   `bson:"discounted_price,omitempty" json:"discountedPrice,omitempty"`
	Quantity        int       `bson:"quantity" json:"quantity"`
	AddedAt         time.Time `bson:"added_at" json:"addedAt"`
}

// EffectivePrice is the price the shopper actually pays per unit.
func (i CartItem) EffectivePrice() float64 {
	if i.DiscountedPrice > 0 {
		return i.DiscountedPrice
	}
	return i.UnitPrice
}

// Subtotal sums the effective line prices over all items.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.EffectivePrice() * float64(item.Quantity)
	}
	return total
}
