package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("category_index"),
	}

	log.Println("EnsureProductIndexes: creating category_index index")
	_, err := db.Collection("products").Indexes().CreateOne(ctx, categoryIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: category index error:", err)
		return err
	}
	return nil
}

// EnsureCartIndexes enforces the one-cart-per-user rule at the store level.
func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetName("userId_unique").
			SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating userId_unique index")
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, userIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: userId index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	log.Println("EnsureOrderIndexes: creating userId_index index")
	_, err := db.Collection("orders").Indexes().CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	return nil
}

func EnsureBlogIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureBlogIndexes: creating slug_unique index")
	_, err := db.Collection("blogs").Indexes().CreateOne(ctx, slugIndex)
	if err != nil {
		log.Println("EnsureBlogIndexes: slug index error:", err)
		return err
	}
	return nil
}

func EnsureCommentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	blogIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "blogId", Value: 1}},
		Options: options.Index().SetName("blogId_index"),
	}

	log.Println("EnsureCommentIndexes: creating blogId_index index")
	_, err := db.Collection("comments").Indexes().CreateOne(ctx, blogIndex)
	if err != nil {
		log.Println("EnsureCommentIndexes: blogId index error:", err)
		return err
	}
	return nil
}
