package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partstore/internal/middleware"
	"partstore/internal/models"
)

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID string `json:"parentId"`
}

type commentUpdateRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// commentNode is a comment with its reply subtree. Replies are derived from
// parentId references at read time; nothing on the stored document can go
// stale.
type commentNode struct {
	models.Comment
	Replies []commentNode `json:"replies"`
}

// buildCommentTree assembles the reply tree. Roots and replies both come
// back oldest-first. Comments whose parent is missing from the input (e.g.
// an unapproved parent) are dropped rather than promoted to roots.
func buildCommentTree(comments []models.Comment) []commentNode {
	children := make(map[primitive.ObjectID][]models.Comment)
	var roots []models.Comment

	known := make(map[primitive.ObjectID]bool, len(comments))
	for _, comment := range comments {
		known[comment.ID] = true
	}

	for _, comment := range comments {
		if comment.ParentID == nil {
			roots = append(roots, comment)
			continue
		}
		if !known[*comment.ParentID] {
			continue
		}
		children[*comment.ParentID] = append(children[*comment.ParentID], comment)
	}

	var build func(list []models.Comment) []commentNode
	build = func(list []models.Comment) []commentNode {
		sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
		nodes := make([]commentNode, 0, len(list))
		for _, comment := range list {
			nodes = append(nodes, commentNode{
				Comment: comment,
				Replies: build(children[comment.ID]),
			})
		}
		return nodes
	}

	return build(roots)
}

/* =========================
   PUBLIC
========================= */

func GetBlogComments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/blogs/:slug/comments"
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

		cursor, err := db.Collection("comments").Find(ctx, bson.M{
			"blogId":   blog.ID,
			"approved": true,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		comments := make([]models.Comment, 0)
		if err := cursor.All(ctx, &comments); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, buildCommentTree(comments))
	}
}

func CreateComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/blogs/:slug/comments"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		content := strings.TrimSpace(req.Content)
		if content == "" {
			respondWithError(c, http.StatusBadRequest, route, "content is required")
			return
		}

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

		comment := models.Comment{
			BlogID:    blog.ID,
			AuthorID:  userID,
			Content:   content,
			Approved:  false,
			CreatedAt: time.Now(),
		}

		if req.ParentID != "" {
			parentID, err := primitive.ObjectIDFromHex(req.ParentID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid parentId")
				return
			}
			// The parent must be a comment on the same blog.
			count, err := db.Collection("comments").CountDocuments(ctx, bson.M{
				"_id":    parentID,
				"blogId": blog.ID,
			})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if count == 0 {
				respondWithError(c, http.StatusNotFound, route, "parent comment not found")
				return
			}
			comment.ParentID = &parentID
		}

		res, err := db.Collection("comments").InsertOne(ctx, comment)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			comment.ID = id
		}

		c.JSON(http.StatusCreated, comment)
	}
}

/* =========================
   ADMIN
========================= */

func GetAllComments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/comments"
		defer handlePanic(c, route)

		filter := bson.M{}
		switch c.Query("approved") {
		case "true":
			filter["approved"] = true
		case "false":
			filter["approved"] = false
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("comments").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		comments := make([]models.Comment, 0)
		if err := cursor.All(ctx, &comments); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, comments)
	}
}

func UpdateComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/comments/:id"
		defer handlePanic(c, route)

		commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req commentUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("comments").UpdateByID(ctx, commentID, bson.M{
			"$set": bson.M{"approved": *req.Approved},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "comment not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "comment updated"})
	}
}

// DeleteComment removes a comment and every descendant reply, walking the
// parentId references level by level.
func DeleteComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/comments/:id"
		defer handlePanic(c, route)

		commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		toDelete := []primitive.ObjectID{commentID}
		frontier := []primitive.ObjectID{commentID}

		for len(frontier) > 0 {
			cursor, err := db.Collection("comments").Find(ctx, bson.M{
				"parentId": bson.M{"$in": frontier},
			})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			var replies []models.Comment
			if err := cursor.All(ctx, &replies); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}

			frontier = frontier[:0]
			for _, reply := range replies {
				toDelete = append(toDelete, reply.ID)
				frontier = append(frontier, reply.ID)
			}
		}

		res, err := db.Collection("comments").DeleteMany(ctx, bson.M{"_id": bson.M{"$in": toDelete}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "comment not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": res.DeletedCount})
	}
}
