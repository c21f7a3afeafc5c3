package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func stockedProduct(name, category string, stock int) models.Product {
	return models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Category: category,
		Stock:    stock,
	}
}

func TestAlertLevelFor(t *testing.T) {
	assert.Equal(t, AlertOutOfStock, AlertLevelFor(0))
	assert.Equal(t, AlertCritical, AlertLevelFor(1))
	assert.Equal(t, AlertCritical, AlertLevelFor(2))
	assert.Equal(t, AlertWarning, AlertLevelFor(3))
	assert.Equal(t, AlertWarning, AlertLevelFor(5))
	assert.Equal(t, AlertLow, AlertLevelFor(6))
	assert.Equal(t, AlertLow, AlertLevelFor(10))
}

func TestStockAlerts(t *testing.T) {
	products := []models.Product{
		stockedProduct("Brake Pads", "brakes", 0),
		stockedProduct("Oil Filter", "filters", 2),
		stockedProduct("Air Filter", "filters", 5),
		stockedProduct("Spark Plug", "ignition", 8),
		stockedProduct("Wiper Blade", "exterior", 11),
	}

	report := StockAlerts(products, 10, "")

	require.Len(t, report.Alerts, 4, "stock above threshold never appears")
	assert.Equal(t, "Brake Pads", report.Alerts[0].Name, "sorted by stock ascending")
	assert.Equal(t, AlertOutOfStock, report.Alerts[0].AlertLevel)
	assert.Equal(t, AlertCritical, report.Alerts[1].AlertLevel)
	assert.Equal(t, AlertWarning, report.Alerts[2].AlertLevel)
	assert.Equal(t, AlertLow, report.Alerts[3].AlertLevel)

	assert.Equal(t, 1, report.Summary[AlertOutOfStock])
	assert.Equal(t, 1, report.Summary[AlertCritical])
	assert.Equal(t, 1, report.Summary[AlertWarning])
	assert.Equal(t, 1, report.Summary[AlertLow])
}

func TestStockAlertsCategoryFilter(t *testing.T) {
	products := []models.Product{
		stockedProduct("Oil Filter", "filters", 2),
		stockedProduct("Brake Pads", "brakes", 2),
	}

	report := StockAlerts(products, 10, "filters")

	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "Oil Filter", report.Alerts[0].Name)
}

func TestStockAlertsThresholdDefault(t *testing.T) {
	products := []models.Product{stockedProduct("Oil Filter", "filters", 10)}

	report := StockAlerts(products, 0, "")

	require.Len(t, report.Alerts, 1, "zero threshold falls back to the default")
}
