package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is an immutable copy of the product name/price captured at
// purchase time, decoupled from later product edits.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type ShippingAddress struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// Order defines the persisted order document. Once created, only status,
// paymentStatus and tracking fields mutate.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	Status          string             `bson:"status" json:"status"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	TrackingNumber  string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var OrderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}

var PaymentStatuses = []string{"pending", "paid", "failed", "refunded"}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidPaymentStatus(status string) bool {
	for _, s := range PaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
