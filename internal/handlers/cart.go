package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partstore/internal/middleware"
	"partstore/internal/models"
)

const maxItemQuantity = 99

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

/* =========================
   CART ARITHMETIC
========================= */

// cartTotal recomputes the invariant total from the line items. Called on
// every persist so totalAmount can never drift from the items.
func cartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// applyAddItem merges a new line into the cart items. An existing line for
// the same product increments rather than replaces; the merged quantity is
// re-checked against stock and the per-line cap. The returned snapshot price
// is taken at add-time and never re-synced.
func applyAddItem(items []models.CartItem, product models.Product, quantity int) ([]models.CartItem, error) {
	if quantity < 1 || quantity > maxItemQuantity {
		return nil, fmt.Errorf("quantity must be between 1 and %d", maxItemQuantity)
	}

	for i, item := range items {
		if item.ProductID == product.ID {
			merged := item.Quantity + quantity
			if merged > maxItemQuantity {
				return nil, fmt.Errorf("quantity must be between 1 and %d", maxItemQuantity)
			}
			if merged > product.Stock {
				return nil, insufficientStockError{Name: product.Name, Available: product.Stock, Requested: merged}
			}
			updated := append([]models.CartItem(nil), items...)
			updated[i].Quantity = merged
			return updated, nil
		}
	}

	if quantity > product.Stock {
		return nil, insufficientStockError{Name: product.Name, Available: product.Stock, Requested: quantity}
	}

	return append(append([]models.CartItem(nil), items...), models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.FirstImage(),
		Quantity:  quantity,
	}), nil
}

// applyUpdateQuantity sets an existing line's quantity, re-checking stock at
// update time rather than trusting the add-time check.
func applyUpdateQuantity(items []models.CartItem, productID primitive.ObjectID, quantity, stock int) ([]models.CartItem, error) {
	if quantity < 1 || quantity > maxItemQuantity {
		return nil, fmt.Errorf("quantity must be between 1 and %d", maxItemQuantity)
	}

	for i, item := range items {
		if item.ProductID == productID {
			if quantity > stock {
				return nil, insufficientStockError{Name: item.Name, Available: stock, Requested: quantity}
			}
			updated := append([]models.CartItem(nil), items...)
			updated[i].Quantity = quantity
			return updated, nil
		}
	}

	return nil, errItemNotInCart
}

func removeItem(items []models.CartItem, productID primitive.ObjectID) ([]models.CartItem, bool) {
	updated := make([]models.CartItem, 0, len(items))
	removed := false
	for _, item := range items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		updated = append(updated, item)
	}
	return updated, removed
}

/* =========================
   HANDLERS
========================= */

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			// Carts are created lazily; no cart reads as an empty one.
			c.JSON(http.StatusOK, models.Cart{UserID: userID, Items: []models.CartItem{}})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, cart)
	}
}

func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		var cart models.Cart
		err = db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err != nil && err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		items, err := applyAddItem(cart.Items, product, req.Quantity)
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		now := time.Now()
		update := bson.M{
			"$set": bson.M{
				"items":       items,
				"totalAmount": cartTotal(items),
				"updatedAt":   now,
			},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"createdAt": now,
			},
		}

		opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
		var saved models.Cart
		if err := db.Collection("carts").FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&saved); err != nil {
			log.Printf("[%s] cart upsert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] cart now has %d items for user %s", route, len(saved.Items), userID.Hex())
		c.JSON(http.StatusOK, saved)
	}
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
			respondWithError(c, http.StatusNotFound, route, "cart not found")
			return
		}

		// Stock is re-checked at update time, not trusted from add-time.
		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		items, err := applyUpdateQuantity(cart.Items, productID, req.Quantity, product.Stock)
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		if err := saveCartItems(ctx, db, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cart.Items = items
		cart.TotalAmount = cartTotal(items)
		c.JSON(http.StatusOK, cart)
	}
}

func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		productIDStr := c.Query("productId")
		if productIDStr == "" {
			// No productId clears the whole cart.
			if _, err := db.Collection("carts").DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(productIDStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
			respondWithError(c, http.StatusNotFound, route, "cart not found")
			return
		}

		items, removed := removeItem(cart.Items, productID)
		if !removed {
			respondWithError(c, http.StatusNotFound, route, "item not in cart")
			return
		}

		if err := saveCartItems(ctx, db, userID, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cart.Items = items
		cart.TotalAmount = cartTotal(items)
		c.JSON(http.StatusOK, cart)
	}
}

func saveCartItems(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, items []models.CartItem) error {
	_, err := db.Collection("carts").UpdateOne(ctx, bson.M{"userId": userID}, bson.M{
		"$set": bson.M{
			"items":       items,
			"totalAmount": cartTotal(items),
			"updatedAt":   time.Now(),
		},
	})
	return err
}

func respondCartError(c *gin.Context, route string, err error) {
	if stockErr, ok := err.(insufficientStockError); ok {
		log.Printf("[%s] insufficient stock: %s", route, stockErr.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "insufficient stock",
			"product":   stockErr.Name,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}
	if err == errItemNotInCart {
		respondWithError(c, http.StatusNotFound, route, err.Error())
		return
	}
	respondWithError(c, http.StatusBadRequest, route, err.Error())
}
