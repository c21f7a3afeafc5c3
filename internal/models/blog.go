package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	AuthorID    primitive.ObjectID `bson:"authorId" json:"authorId"`
	Slug        string             `bson:"slug" json:"slug"`
	Tags        []string           `bson:"tags" json:"tags"`
	Published   bool               `bson:"published" json:"published"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
