package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"partstore/internal/analytics"
	"partstore/internal/cache"
	"partstore/internal/insights"
	"partstore/internal/models"
)

type insightsResponse struct {
	Forecast         []insights.ForecastPoint   `json:"forecast"`
	ForecastAccuracy int                        `json:"forecastAccuracy"`
	ChurnRisks       []insights.ChurnRisk       `json:"churnRisks"`
	StockAlerts      analytics.StockAlertReport `json:"stockAlerts"`
	Recommendations  []insights.Recommendation  `json:"recommendations"`
	GeneratedAt      time.Time                  `json:"generatedAt"`
}

// GetInsights runs the full insight pipeline: demand forecast, churn scoring,
// stock alerts and the recommendations derived from all three.
// GET /api/admin/insights
func GetInsights(db *mongo.Database, reportCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/insights"
		defer handlePanic(c, route)

		if cached, ok := reportCache.Get("insights"); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
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

		names, err := fetchUserNames(ctx, db)
		if err != nil {
			log.Printf("[%s] user fetch failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		forecast := insights.DemandForecast(monthlyDemand(orders))
		churn := insights.ChurnRisks(customerActivity(orders, names), time.Now())
		alerts := analytics.StockAlerts(products, analytics.DefaultStockThreshold, "")

		response := insightsResponse{
			Forecast:         forecast,
			ForecastAccuracy: insights.ForecastAccuracyPct,
			ChurnRisks:       churn,
			StockAlerts:      alerts,
			Recommendations:  insights.Recommendations(forecast, churn, alerts.Alerts),
			GeneratedAt:      time.Now().UTC(),
		}

		reportCache.Set("insights", response)
		c.JSON(http.StatusOK, response)
	}
}

// monthlyDemand buckets paid orders into ascending "2006-01" periods.
func monthlyDemand(orders []models.Order) []insights.PeriodDemand {
	byMonth := make(map[string]int)
	for _, order := range orders {
		byMonth[order.CreatedAt.Format("2006-01")]++
	}

	history := make([]insights.PeriodDemand, 0, len(byMonth))
	for period, count := range byMonth {
		history = append(history, insights.PeriodDemand{Period: period, Orders: count})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Period < history[j].Period })
	return history
}

func customerActivity(orders []models.Order, names map[string]string) []insights.CustomerActivity {
	byUser := make(map[string]*insights.CustomerActivity)
	for _, order := range orders {
		userID := order.UserID.Hex()
		activity, ok := byUser[userID]
		if !ok {
			activity = &insights.CustomerActivity{UserID: userID, Name: names[userID]}
			byUser[userID] = activity
		}
		activity.OrderDates = append(activity.OrderDates, order.CreatedAt)
		activity.TotalSpent += order.TotalAmount
	}

	customers := make([]insights.CustomerActivity, 0, len(byUser))
	for _, activity := range byUser {
		customers = append(customers, *activity)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].UserID < customers[j].UserID })
	return customers
}

func fetchUserNames(ctx context.Context, db *mongo.Database) (map[string]string, error) {
	cursor, err := db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID.Hex()] = user.Name
	}
	return names, nil
}
