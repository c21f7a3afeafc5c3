package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentIntent is the local record written at order creation with
// amount = cart total. No gateway call happens here.
type PaymentIntent struct {
	ID        string             `bson:"_id" json:"id"`
	OrderID   primitive.ObjectID `bson:"orderId" json:"orderId"`
	Amount    float64            `bson:"amount" json:"amount"`
	Currency  string             `bson:"currency" json:"currency"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
