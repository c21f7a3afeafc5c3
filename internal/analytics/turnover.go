package analytics

import (
	"sort"

	"partstore/internal/models"
)

const (
	FastMovingRatio = 4.0
	SlowMovingRatio = 1.0
)

type ProductTurnover struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	UnitsSold     int      `json:"unitsSold"`
	CurrentStock  int      `json:"currentStock"`
	TurnoverRatio float64  `json:"turnoverRatio"`
	TurnoverDays  *float64 `json:"turnoverDays"`
}

type TurnoverReport struct {
	WindowDays int               `json:"windowDays"`
	Products   []ProductTurnover `json:"products"`
	FastMoving int               `json:"fastMoving"`
	SlowMoving int               `json:"slowMoving"`
}

// InventoryTurnover sums units sold per product from paid orders inside the
// lookback window. Ratio is unitsSold over current stock (0 when there is no
// stock, with a nil turnoverDays sentinel). Products with zero sales in the
// window are excluded.
func InventoryTurnover(orders []models.Order, products []models.Product, windowDays, limit int) TurnoverReport {
	unitsSold := make(map[string]int)
	for _, order := range orders {
		if order.PaymentStatus != "paid" {
			continue
		}
		for _, item := range order.Items {
			unitsSold[item.ProductID.Hex()] += item.Quantity
		}
	}

	report := TurnoverReport{WindowDays: windowDays, Products: make([]ProductTurnover, 0)}

	for _, product := range products {
		sold := unitsSold[product.ID.Hex()]
		if sold == 0 {
			continue
		}

		row := ProductTurnover{
			ProductID:    product.ID.Hex(),
			Name:         product.Name,
			UnitsSold:    sold,
			CurrentStock: product.Stock,
		}
		if product.Stock > 0 {
			row.TurnoverRatio = float64(sold) / float64(product.Stock)
			days := float64(windowDays) / row.TurnoverRatio
			row.TurnoverDays = &days
		}

		if row.TurnoverRatio >= FastMovingRatio {
			report.FastMoving++
		} else if row.TurnoverRatio < SlowMovingRatio {
			report.SlowMoving++
		}
		report.Products = append(report.Products, row)
	}

	sort.Slice(report.Products, func(i, j int) bool {
		if report.Products[i].TurnoverRatio != report.Products[j].TurnoverRatio {
			return report.Products[i].TurnoverRatio > report.Products[j].TurnoverRatio
		}
		return report.Products[i].Name < report.Products[j].Name
	})

	if limit > 0 && len(report.Products) > limit {
		report.Products = report.Products[:limit]
	}

	return report
}
