package analytics

import (
	"sort"

	"partstore/internal/models"
)

// PeriodSummary is one row of the financial summary: order line items joined
// to product cost, grouped by period key.
type PeriodSummary struct {
	Period    string  `json:"period"`
	Revenue   float64 `json:"revenue"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marginPct"`
	Orders    int     `json:"orders"`
}

// FinancialSummary groups paid-order line items by period, pricing cost from
// the product's current costPrice (0 when the product is gone or has none).
func FinancialSummary(orders []models.Order, costByProduct map[string]float64, period string) []PeriodSummary {
	byKey := make(map[string]*PeriodSummary)

	for _, order := range orders {
		if order.PaymentStatus != "paid" {
			continue
		}
		key := PeriodKey(order.CreatedAt, period)
		row, ok := byKey[key]
		if !ok {
			row = &PeriodSummary{Period: key}
			byKey[key] = row
		}
		row.Orders++
		for _, item := range order.Items {
			revenue := item.Price * float64(item.Quantity)
			cost := costByProduct[item.ProductID.Hex()] * float64(item.Quantity)
			row.Revenue += revenue
			row.Cost += cost
			row.Profit += revenue - cost
		}
	}

	summaries := make([]PeriodSummary, 0, len(byKey))
	for _, row := range byKey {
		if row.Revenue > 0 {
			row.MarginPct = row.Profit / row.Revenue * 100
		}
		summaries = append(summaries, *row)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Period < summaries[j].Period })

	return summaries
}
