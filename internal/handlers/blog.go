package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partstore/internal/middleware"
	"partstore/internal/models"
)

type blogRequest struct {
	Title     string   `json:"title" binding:"required"`
	Content   string   `json:"content" binding:"required"`
	Excerpt   string   `json:"excerpt"`
	Slug      string   `json:"slug"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

type blogUpdateRequest struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Excerpt   *string   `json:"excerpt"`
	Tags      *[]string `json:"tags"`
	Published *bool     `json:"published"`
}

// blogSlug derives the slug from the title unless one was supplied.
func blogSlug(title, explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return slug.Make(trimmed)
	}
	return slug.Make(title)
}

/* =========================
   PUBLIC
========================= */

func GetBlogs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/blogs"
		defer handlePanic(c, route)

		filter := bson.M{"published": true}
		if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
			filter["tags"] = tag
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "publishedAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("blogs").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		blogs := make([]models.Blog, 0)
		if err := cursor.All(ctx, &blogs); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d blogs", route, len(blogs))
		c.JSON(http.StatusOK, blogs)
	}
}

func GetBlogBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/blogs/:slug"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var blog models.Blog
		err := db.Collection("blogs").FindOne(ctx, bson.M{
			"slug":      c.Param("slug"),
			"published": true,
		}).Decode(&blog)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "blog not found")
			return
		}

		c.JSON(http.StatusOK, blog)
	}
}

/* =========================
   ADMIN
========================= */

func GetAllBlogs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/blogs"
		defer handlePanic(c, route)

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("blogs").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		blogs := make([]models.Blog, 0)
		if err := cursor.All(ctx, &blogs); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, blogs)
	}
}

func CreateBlog(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/blogs"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req blogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		tags := req.Tags
		if tags == nil {
			tags = []string{}
		}

		now := time.Now()
		blog := models.Blog{
			Title:     strings.TrimSpace(req.Title),
			Content:   req.Content,
			Excerpt:   strings.TrimSpace(req.Excerpt),
			AuthorID:  userID,
			Slug:      blogSlug(req.Title, req.Slug),
			Tags:      tags,
			Published: req.Published,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.Published {
			// publishedAt is set once, on the first publish transition.
			blog.PublishedAt = &now
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("blogs").InsertOne(ctx, blog)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "slug already in use")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			blog.ID = id
		}

		log.Printf("[%s] blog created: %s", route, blog.Slug)
		c.JSON(http.StatusCreated, blog)
	}
}

func UpdateBlog(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/blogs/:id"
		defer handlePanic(c, route)

		blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req blogUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Blog
		if err := db.Collection("blogs").FindOne(ctx, bson.M{"_id": blogID}).Decode(&existing); err != nil {
			respondWithError(c, http.StatusNotFound, route, "blog not found")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Title != nil {
			set["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Content != nil {
			set["content"] = *req.Content
		}
		if req.Excerpt != nil {
			set["excerpt"] = strings.TrimSpace(*req.Excerpt)
		}
		if req.Tags != nil {
			set["tags"] = *req.Tags
		}
		if req.Published != nil {
			set["published"] = *req.Published
			if *req.Published && existing.PublishedAt == nil {
				set["publishedAt"] = time.Now()
			}
		}

		if _, err := db.Collection("blogs").UpdateByID(ctx, blogID, bson.M{"$set": set}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog updated"})
	}
}

func DeleteBlog(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/blogs/:id"
		defer handlePanic(c, route)

		blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("blogs").DeleteOne(ctx, bson.M{"_id": blogID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "blog not found")
			return
		}

		// Comments belong to the blog; remove the whole tree with it.
		_, _ = db.Collection("comments").DeleteMany(ctx, bson.M{"blogId": blogID})

		c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
	}
}
