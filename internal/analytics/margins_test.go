package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func TestProductMarginPct(t *testing.T) {
	assert.Equal(t, 50.0, ProductMarginPct(100, 50))
	assert.InDelta(t, 33.33, ProductMarginPct(30, 20), 0.01)
	assert.Equal(t, -100.0, ProductMarginPct(50, 100))
}

func TestProductMarginPctZeroCost(t *testing.T) {
	// Missing cost price reads as 0% margin even though the whole selling
	// price is profit.
	assert.Equal(t, 0.0, ProductMarginPct(50, 0))
	assert.Equal(t, 0.0, ProductMarginPct(0, 0))
}

func TestProfitMargins(t *testing.T) {
	products := []models.Product{
		{ID: primitive.NewObjectID(), Name: "Oil Filter", Category: "filters", Price: 100, CostPrice: 40},
		{ID: primitive.NewObjectID(), Name: "Air Filter", Category: "filters", Price: 50, CostPrice: 30},
		{ID: primitive.NewObjectID(), Name: "Brake Pads", Category: "brakes", Price: 80, CostPrice: 0},
	}

	report := ProfitMargins(products)

	require.Len(t, report.Products, 3)
	assert.Equal(t, "Brake Pads", report.Products[0].Name, "sorted by profit descending")
	assert.Equal(t, 80.0, report.Products[0].Profit)
	assert.Equal(t, 0.0, report.Products[0].MarginPct)
	assert.Equal(t, "Oil Filter", report.Products[1].Name)
	assert.Equal(t, 60.0, report.Products[1].MarginPct)

	require.Len(t, report.Categories, 2)
	brakes := report.Categories[0]
	assert.Equal(t, "brakes", brakes.Category)
	assert.Equal(t, 100.0, brakes.MarginPct)

	filters := report.Categories[1]
	assert.Equal(t, 150.0, filters.TotalRevenue)
	assert.Equal(t, 70.0, filters.TotalCost)
	assert.InDelta(t, 53.33, filters.MarginPct, 0.01)
}

func TestFinancialSummary(t *testing.T) {
	oilFilter := primitive.NewObjectID()
	brakePads := primitive.NewObjectID()
	costs := map[string]float64{
		oilFilter.Hex(): 40,
		brakePads.Hex(): 30,
	}

	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		orderWithItems(
			models.OrderItem{ProductID: oilFilter, Price: 100, Quantity: 2},
			models.OrderItem{ProductID: brakePads, Price: 80, Quantity: 1},
		),
		orderWithItems(models.OrderItem{ProductID: oilFilter, Price: 100, Quantity: 1}),
	}
	orders[0].CreatedAt = march
	orders[1].CreatedAt = april

	summaries := FinancialSummary(orders, costs, "month")

	require.Len(t, summaries, 2)

	assert.Equal(t, "2025-03", summaries[0].Period)
	assert.Equal(t, 280.0, summaries[0].Revenue)
	assert.Equal(t, 110.0, summaries[0].Cost)
	assert.Equal(t, 170.0, summaries[0].Profit)
	assert.InDelta(t, 60.71, summaries[0].MarginPct, 0.01)
	assert.Equal(t, 1, summaries[0].Orders)

	assert.Equal(t, "2025-04", summaries[1].Period)
	assert.Equal(t, 100.0, summaries[1].Revenue)
	assert.Equal(t, 40.0, summaries[1].Cost)
}

func TestFinancialSummaryUnknownProductCostsZero(t *testing.T) {
	order := orderWithItems(models.OrderItem{ProductID: primitive.NewObjectID(), Price: 50, Quantity: 2})

	summaries := FinancialSummary([]models.Order{order}, map[string]float64{}, "month")

	require.Len(t, summaries, 1)
	assert.Equal(t, 100.0, summaries[0].Revenue)
	assert.Equal(t, 0.0, summaries[0].Cost)
	assert.Equal(t, 100.0, summaries[0].Profit)
}
