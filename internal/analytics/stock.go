package analytics

import (
	"sort"

	"partstore/internal/models"
)

const DefaultStockThreshold = 10

// Alert levels, most severe first.
const (
	AlertOutOfStock = "out_of_stock"
	AlertCritical   = "critical"
	AlertWarning    = "warning"
	AlertLow        = "low"
)

type StockAlert struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Stock      int    `json:"stock"`
	AlertLevel string `json:"alertLevel"`
}

type StockAlertReport struct {
	Alerts  []StockAlert   `json:"alerts"`
	Summary map[string]int `json:"summary"`
}

// AlertLevelFor classifies a stock count by fixed thresholds.
func AlertLevelFor(stock int) string {
	switch {
	case stock == 0:
		return AlertOutOfStock
	case stock <= 2:
		return AlertCritical
	case stock <= 5:
		return AlertWarning
	default:
		return AlertLow
	}
}

// StockAlerts selects products at or below the threshold and classifies each.
// Products above the threshold never appear, regardless of level boundaries.
func StockAlerts(products []models.Product, threshold int, category string) StockAlertReport {
	if threshold <= 0 {
		threshold = DefaultStockThreshold
	}

	report := StockAlertReport{
		Alerts: make([]StockAlert, 0),
		Summary: map[string]int{
			AlertOutOfStock: 0,
			AlertCritical:   0,
			AlertWarning:    0,
			AlertLow:        0,
		},
	}

	for _, product := range products {
		if product.Stock > threshold {
			continue
		}
		if category != "" && product.Category != category {
			continue
		}
		level := AlertLevelFor(product.Stock)
		report.Alerts = append(report.Alerts, StockAlert{
			ProductID:  product.ID.Hex(),
			Name:       product.Name,
			Category:   product.Category,
			Stock:      product.Stock,
			AlertLevel: level,
		})
		report.Summary[level]++
	}

	sort.Slice(report.Alerts, func(i, j int) bool {
		if report.Alerts[i].Stock != report.Alerts[j].Stock {
			return report.Alerts[i].Stock < report.Alerts[j].Stock
		}
		return report.Alerts[i].Name < report.Alerts[j].Name
	})

	return report
}
