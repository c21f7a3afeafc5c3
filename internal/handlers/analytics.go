package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"partstore/internal/analytics"
	"partstore/internal/cache"
	"partstore/internal/models"
)

/* =========================
   FETCH HELPERS
========================= */

func fetchPaidOrders(ctx context.Context, db *mongo.Database, since *time.Time) ([]models.Order, error) {
	filter := bson.M{"paymentStatus": "paid"}
	if since != nil {
		filter["createdAt"] = bson.M{"$gte": *since}
	}

	cursor, err := db.Collection("orders").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func fetchProducts(ctx context.Context, db *mongo.Database) ([]models.Product, error) {
	cursor, err := db.Collection("products").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

/* =========================
   REPORT ENDPOINTS
========================= */

// GetRevenue groups paid orders into period buckets.
// GET /api/admin/revenue?period=day|week|month|year&limit=
func GetRevenue(db *mongo.Database, reportCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/revenue"
		defer handlePanic(c, route)

		period := c.DefaultQuery("period", "month")
		limit := parseIntParam(c.Query("limit"), analytics.DefaultRevenueLimit)

		cacheKey := fmt.Sprintf("revenue:%s:%d", period, limit)
		if cached, ok := reportCache.Get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := fetchPaidOrders(ctx, db, nil)
		if err != nil {
			log.Printf("[%s] order fetch failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		report := analytics.RevenueByPeriod(orders, period, limit)
		reportCache.Set(cacheKey, report)
		c.JSON(http.StatusOK, report)
	}
}

// GetCLV reports per-customer lifetime value plus population-wide metrics.
// GET /api/admin/clv?limit=&minOrders=
func GetCLV(db *mongo.Database, reportCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/clv"
		defer handlePanic(c, route)

		limit := parseIntParam(c.Query("limit"), 50)
		minOrders := parseIntParam(c.Query("minOrders"), 1)

		cacheKey := fmt.Sprintf("clv:%d:%d", limit, minOrders)
		if cached, ok := reportCache.Get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := fetchPaidOrders(ctx, db, nil)
		if err != nil {
			log.Printf("[%s] order fetch failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		report := analytics.CustomerLifetimeValue(orders, limit, minOrders)
		reportCache.Set(cacheKey, report)
		c.JSON(http.StatusOK, report)
	}
}

// GetStockAlerts lists low-stock products with severity levels.
// GET /api/admin/stock-alerts?threshold=&category=
func GetStockAlerts(db *mongo.Database, reportCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/stock-alerts"
		defer handlePanic(c, route)

		threshold := parseIntParam(c.Query("threshold"), analytics.DefaultStockThreshold)
		category := c.Query("category")

		cacheKey := fmt.Sprintf("stock-alerts:%d:%s", threshold, category)
		if cached, ok := reportCache.Get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := fetchProducts(ctx, db)
		if err != nil {
			log.Printf("[%s] product fetch failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		report := analytics.StockAlerts(products, threshold, category)
		reportCache.Set(cacheKey, report)
		c.JSON(http.StatusOK, report)
	}
}

// GetInventoryTurnover reports units sold vs current stock per product over
// a lookback window.
// GET /api/admin/inventory-turnover?period=month|quarter|year&limit=
func GetInventoryTurnover(db *mongo.Database, reportCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/inventory-turnover"
		defer handlePanic(c, route)

		period := c.DefaultQuery("period", "month")
		limit := parseIntParam(c.Query("limit"), 50)
		windowDays := analytics.WindowDays(period)

		cacheKey := fmt.Sprintf("turnover:%s:%d", period, limit)
		if cached, ok := reportCache.Get(cacheKey); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		since := time.Now().AddDate(0, 0, -windowDays)
		orders, err := fetchPaidOrders(ctx, db, &since)
		if err != nil {
			log.Printf("[%s] order fetch failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		products, err := fetchProducts(ctx, db)
		if err != nil {
			log.Printf("[%s] product fetch failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		report := analytics.InventoryTurnover(orders, products, windowDays, limit)
		reportCache.Set(cacheKey, report)
		c.JSON(http.StatusOK, report)
	}
}
