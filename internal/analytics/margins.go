package analytics

import (
	"sort"

	"partstore/internal/models"
)

type ProductMargin struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SellingPrice float64 `json:"sellingPrice"`
	CostPrice    float64 `json:"costPrice"`
	Profit       float64 `json:"profit"`
	MarginPct    float64 `json:"marginPct"`
}

type CategoryMargin struct {
	Category     string  `json:"category"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	TotalProfit  float64 `json:"totalProfit"`
	MarginPct    float64 `json:"marginPct"`
}

type MarginReport struct {
	Products   []ProductMargin  `json:"products"`
	Categories []CategoryMargin `json:"categories"`
}

// ProductMarginPct reports margin as profit over selling price. When the cost
// price is absent the margin reads 0% even though the profit equals the full
// selling price; this matches the observed behavior of the reporting stack
// and is asserted by tests rather than corrected.
func ProductMarginPct(sellingPrice, costPrice float64) float64 {
	if costPrice == 0 || sellingPrice == 0 {
		return 0
	}
	return (sellingPrice - costPrice) / sellingPrice * 100
}

// ProfitMargins computes per-product profit and margin plus category rollups.
// A missing cost price counts as 0.
func ProfitMargins(products []models.Product) MarginReport {
	report := MarginReport{Products: make([]ProductMargin, 0, len(products))}
	byCategory := make(map[string]*CategoryMargin)

	for _, product := range products {
		profit := product.Price - product.CostPrice
		report.Products = append(report.Products, ProductMargin{
			ProductID:    product.ID.Hex(),
			Name:         product.Name,
			Category:     product.Category,
			SellingPrice: product.Price,
			CostPrice:    product.CostPrice,
			Profit:       profit,
			MarginPct:    ProductMarginPct(product.Price, product.CostPrice),
		})

		rollup, ok := byCategory[product.Category]
		if !ok {
			rollup = &CategoryMargin{Category: product.Category}
			byCategory[product.Category] = rollup
		}
		rollup.TotalRevenue += product.Price
		rollup.TotalCost += product.CostPrice
		rollup.TotalProfit += profit
	}

	for _, rollup := range byCategory {
		if rollup.TotalRevenue > 0 {
			rollup.MarginPct = rollup.TotalProfit / rollup.TotalRevenue * 100
		}
		report.Categories = append(report.Categories, *rollup)
	}

	sort.Slice(report.Products, func(i, j int) bool {
		return report.Products[i].Profit > report.Products[j].Profit
	})
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	return report
}
