package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"partstore/internal/middleware"
	"partstore/internal/models"
)

type addressRequest struct {
	Title     string `json:"title" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	Note      string `json:"note"`
	IsDefault bool   `json:"isDefault"`
}

func GetUserAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/addresses"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if user.Addresses == nil {
			user.Addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, user.Addresses)
	}
}

func CreateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/addresses"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address := models.Address{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(req.Title),
			Detail:    strings.TrimSpace(req.Detail),
			Note:      strings.TrimSpace(req.Note),
			IsDefault: req.IsDefault,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if address.IsDefault {
			_, _ = db.Collection("users").UpdateByID(ctx, userID, bson.M{
				"$set": bson.M{"addresses.$[].isDefault": false},
			})
		}

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$push": bson.M{"addresses": address},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

func UpdateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		addressID := c.Param("id")

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if req.IsDefault {
			_, _ = db.Collection("users").UpdateByID(ctx, userID, bson.M{
				"$set": bson.M{"addresses.$[].isDefault": false},
			})
		}

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": userID, "addresses.id": addressID},
			bson.M{"$set": bson.M{
				"addresses.$.title":     strings.TrimSpace(req.Title),
				"addresses.$.detail":    strings.TrimSpace(req.Detail),
				"addresses.$.note":      strings.TrimSpace(req.Note),
				"addresses.$.isDefault": req.IsDefault,
				"updatedAt":             time.Now(),
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address updated"})
	}
}

func DeleteUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		addressID := c.Param("id")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$pull": bson.M{"addresses": bson.M{"id": addressID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.ModifiedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}
