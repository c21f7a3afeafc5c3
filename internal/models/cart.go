package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem carries a snapshot of the product taken at add-time. The price is
// not re-synced if the product changes while the item sits in the cart.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is created lazily on first add and deleted wholesale when an order is
// placed from it. One cart per user, enforced by a unique index on userId.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
