package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"partstore/internal/analytics"
	"partstore/internal/cache"
	"partstore/internal/models"
)

// GetReports dispatches the admin report endpoint.
// GET /api/admin/reports?type=profit-margins|monthly-summary|export-data
func GetReports(db *mongo.Database, reportCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/reports"
		defer handlePanic(c, route)

		switch c.Query("type") {
		case "profit-margins":
			profitMarginsReport(c, db, reportCache, route)
		case "monthly-summary":
			monthlySummaryReport(c, db, reportCache, route)
		case "export-data":
			exportDataReport(c, db, route)
		default:
			respondWithError(c, http.StatusBadRequest, route, "unknown report type")
		}
	}
}

func profitMarginsReport(c *gin.Context, db *mongo.Database, reportCache *cache.Cache, route string) {
	if cached, ok := reportCache.Get("reports:profit-margins"); ok {
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

	report := analytics.ProfitMargins(products)
	reportCache.Set("reports:profit-margins", report)
	c.JSON(http.StatusOK, report)
}

func monthlySummaryReport(c *gin.Context, db *mongo.Database, reportCache *cache.Cache, route string) {
	period := c.DefaultQuery("period", "month")

	cacheKey := "reports:summary:" + period
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

	products, err := fetchProducts(ctx, db)
	if err != nil {
		log.Printf("[%s] product fetch failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
		return
	}

	costByProduct := make(map[string]float64, len(products))
	for _, product := range products {
		costByProduct[product.ID.Hex()] = product.CostPrice
	}

	report := analytics.FinancialSummary(orders, costByProduct, period)
	reportCache.Set(cacheKey, report)
	c.JSON(http.StatusOK, report)
}

// exportDataReport streams the full catalog and order book as an xlsx
// workbook. Never cached: admins expect a fresh export.
func exportDataReport(c *gin.Context, db *mongo.Database, route string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	products, err := fetchProducts(ctx, db)
	if err != nil {
		log.Printf("[%s] product fetch failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
		return
	}

	orders, err := fetchAllOrders(ctx, db)
	if err != nil {
		log.Printf("[%s] order fetch failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
		return
	}

	workbook, err := buildExportWorkbook(products, orders)
	if err != nil {
		log.Printf("[%s] workbook build failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
		return
	}

	filename := fmt.Sprintf("partstore-export-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		log.Printf("[%s] workbook write failed: %v", route, err)
	}
}

func fetchAllOrders(ctx context.Context, db *mongo.Database) ([]models.Order, error) {
	cursor, err := db.Collection("orders").Find(ctx, bson.M{})
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

func buildExportWorkbook(products []models.Product, orders []models.Order) (*xlsx.File, error) {
	workbook := xlsx.NewFile()

	productSheet, err := workbook.AddSheet("Products")
	if err != nil {
		return nil, err
	}
	header := productSheet.AddRow()
	for _, title := range []string{"ID", "Name", "Category", "Brand", "Price", "Cost Price", "Stock", "Featured", "Sale"} {
		header.AddCell().SetString(title)
	}
	for _, product := range products {
		row := productSheet.AddRow()
		row.AddCell().SetString(product.ID.Hex())
		row.AddCell().SetString(product.Name)
		row.AddCell().SetString(product.Category)
		row.AddCell().SetString(product.Brand)
		row.AddCell().SetFloat(product.Price)
		row.AddCell().SetFloat(product.CostPrice)
		row.AddCell().SetInt(product.Stock)
		row.AddCell().SetBool(product.Featured)
		row.AddCell().SetBool(product.Sale)
	}

	orderSheet, err := workbook.AddSheet("Orders")
	if err != nil {
		return nil, err
	}
	header = orderSheet.AddRow()
	for _, title := range []string{"ID", "User ID", "Status", "Payment Status", "Items", "Total", "Created At"} {
		header.AddCell().SetString(title)
	}
	for _, order := range orders {
		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		row := orderSheet.AddRow()
		row.AddCell().SetString(order.ID.Hex())
		row.AddCell().SetString(order.UserID.Hex())
		row.AddCell().SetString(order.Status)
		row.AddCell().SetString(order.PaymentStatus)
		row.AddCell().SetInt(itemCount)
		row.AddCell().SetFloat(order.TotalAmount)
		row.AddCell().SetString(order.CreatedAt.Format(time.RFC3339))
	}

	return workbook, nil
}
