package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partstore/internal/models"
)

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required"`
	CostPrice   float64  `json:"costPrice"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock" binding:"required"`
	Featured    bool     `json:"featured"`
	Sale        bool     `json:"sale"`
}

type productUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	CostPrice   *float64  `json:"costPrice"`
	Category    *string   `json:"category"`
	Brand       *string   `json:"brand"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Featured    *bool     `json:"featured"`
	Sale        *bool     `json:"sale"`
}

type bulkPriceRequest struct {
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Percent  *float64 `json:"percent" binding:"required"`
}

func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}

		findOptions := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": products,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if *req.Price < 0 {
			respondWithError(c, http.StatusBadRequest, route, "price must not be negative")
			return
		}
		if req.CostPrice < 0 {
			respondWithError(c, http.StatusBadRequest, route, "costPrice must not be negative")
			return
		}
		if *req.Stock < 0 {
			respondWithError(c, http.StatusBadRequest, route, "stock must not be negative")
			return
		}

		images := req.Images
		if images == nil {
			images = []string{}
		}

		now := time.Now()
		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       *req.Price,
			CostPrice:   req.CostPrice,
			Category:    strings.TrimSpace(req.Category),
			Brand:       strings.TrimSpace(req.Brand),
			Images:      images,
			Stock:       *req.Stock,
			Featured:    req.Featured,
			Sale:        req.Sale,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Printf("[%s] insert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		log.Printf("[%s] product created: %s", route, product.Name)
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must not be negative")
				return
			}
			set["price"] = *req.Price
		}
		if req.CostPrice != nil {
			if *req.CostPrice < 0 {
				respondWithError(c, http.StatusBadRequest, route, "costPrice must not be negative")
				return
			}
			set["costPrice"] = *req.CostPrice
		}
		if req.Category != nil {
			set["category"] = strings.TrimSpace(*req.Category)
		}
		if req.Brand != nil {
			set["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.Images != nil {
			set["images"] = *req.Images
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "stock must not be negative")
				return
			}
			set["stock"] = *req.Stock
		}
		if req.Featured != nil {
			set["featured"] = *req.Featured
		}
		if req.Sale != nil {
			set["sale"] = *req.Sale
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

// BulkUpdatePrices adjusts every matching product's price by a percentage,
// optionally scoped to a category and/or brand.
func BulkUpdatePrices(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/bulk-price"
		defer handlePanic(c, route)

		var req bulkPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if *req.Percent <= -100 {
			respondWithError(c, http.StatusBadRequest, route, "percent would make prices negative")
			return
		}

		filter := bson.M{}
		if category := strings.TrimSpace(req.Category); category != "" {
			filter["category"] = category
		}
		if brand := strings.TrimSpace(req.Brand); brand != "" {
			filter["brand"] = brand
		}

		factor := 1 + *req.Percent/100

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateMany(ctx, filter, bson.M{
			"$mul": bson.M{"price": factor},
			"$set": bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] adjusted %d products by %.1f%%", route, res.ModifiedCount, *req.Percent)
		c.JSON(http.StatusOK, gin.H{
			"matched":  res.MatchedCount,
			"modified": res.ModifiedCount,
		})
	}
}
