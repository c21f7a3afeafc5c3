package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a single saved shipping address for a user.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Detail    string `bson:"detail" json:"detail"`
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// User represents the application user account. Role is either "customer"
// or "admin" and is the sole authorization gate.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	PasswordHash        string             `bson:"passwordHash" json:"-"`
	Role                string             `bson:"role" json:"role"`
	TotalOrders         int                `bson:"totalOrders" json:"totalOrders"`
	TotalSpent          float64            `bson:"totalSpent" json:"totalSpent"`
	PreferredCategories []string           `bson:"preferredCategories" json:"preferredCategories"`
	LoyaltyTier         string             `bson:"loyaltyTier" json:"loyaltyTier"`
	Addresses           []Address          `bson:"addresses" json:"addresses"`
	IsActive            bool               `bson:"isActive" json:"isActive"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LoyaltyTierFor maps cumulative spend to a tier name.
func LoyaltyTierFor(totalSpent float64) string {
	switch {
	case totalSpent >= 5000:
		return "platinum"
	case totalSpent >= 2000:
		return "gold"
	case totalSpent >= 500:
		return "silver"
	default:
		return "bronze"
	}
}
