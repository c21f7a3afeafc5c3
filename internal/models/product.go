package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	CostPrice   float64            `bson:"costPrice,omitempty" json:"costPrice,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	Stock       int                `bson:"stock" json:"stock"`
	InStock     bool               `bson:"-" json:"inStock"`
	Featured    bool               `bson:"featured" json:"featured"`
	Sale        bool               `bson:"sale" json:"sale"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage returns the lead image, used for cart and order snapshots.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
