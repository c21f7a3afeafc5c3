package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment nodes form a tree rooted at a blog post. Only the parent reference
// is stored; reply lists are recomputed by querying parentId, never
// materialized on the document.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BlogID    primitive.ObjectID  `bson:"blogId" json:"blogId"`
	AuthorID  primitive.ObjectID  `bson:"authorId" json:"authorId"`
	Content   string              `bson:"content" json:"content"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Approved  bool                `bson:"approved" json:"approved"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
