package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"partstore/internal/models"
)

// RequireAuth validates the bearer token and injects the userId into the
// gin context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userIDFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// RequireAdmin loads the caller's user document and checks its role. The
// check runs against the freshly loaded record on every request rather than
// cached claims, so demoting an admin takes effect immediately.
func RequireAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			log.Println("[AUTH] [ERROR] admin check user lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func userIDFromHeader(header, secret string) (primitive.ObjectID, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return primitive.NilObjectID, errMissingToken
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return primitive.NilObjectID, errInvalidToken
	}

	return ParseUserToken(parts[1], secret)
}

// ParseUserToken validates a signed access token and extracts the userId
// claim. Shared with the websocket endpoint, which carries the token in a
// query parameter instead of a header.
func ParseUserToken(raw, secret string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, errInvalidToken
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return primitive.NilObjectID, errInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return primitive.NilObjectID, errInvalidToken
	}

	return userID, nil
}
