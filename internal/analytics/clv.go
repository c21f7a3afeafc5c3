package analytics

import (
	"sort"
	"time"

	"partstore/internal/models"
)

// CustomerValue is one customer's lifetime-value row.
type CustomerValue struct {
	UserID            string    `json:"userId"`
	TotalSpent        float64   `json:"totalSpent"`
	OrderCount        int       `json:"orderCount"`
	FirstOrder        time.Time `json:"firstOrder"`
	LastOrder         time.Time `json:"lastOrder"`
	AverageOrderValue float64   `json:"averageOrderValue"`
	LifetimeDays      int       `json:"customerLifetimeDays"`
}

// OverallMetrics covers the whole paid-order population, not just the
// filtered/limited customer subset.
type OverallMetrics struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	TotalCustomers    int     `json:"totalCustomers"`
	AverageCLV        float64 `json:"averageCLV"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type CLVReport struct {
	Customers []CustomerValue `json:"customers"`
	Overall   OverallMetrics  `json:"overallMetrics"`
}

// CustomerLifetimeValue groups paid orders by user. Customers below minOrders
// are filtered from the list; the overall metrics stay population-wide.
func CustomerLifetimeValue(orders []models.Order, limit, minOrders int) CLVReport {
	if minOrders < 1 {
		minOrders = 1
	}

	byUser := make(map[string]*CustomerValue)
	overall := OverallMetrics{}

	for _, order := range orders {
		if order.PaymentStatus != "paid" {
			continue
		}
		key := order.UserID.Hex()
		row, ok := byUser[key]
		if !ok {
			row = &CustomerValue{
				UserID:     key,
				FirstOrder: order.CreatedAt,
				LastOrder:  order.CreatedAt,
			}
			byUser[key] = row
		}
		row.TotalSpent += order.TotalAmount
		row.OrderCount++
		if order.CreatedAt.Before(row.FirstOrder) {
			row.FirstOrder = order.CreatedAt
		}
		if order.CreatedAt.After(row.LastOrder) {
			row.LastOrder = order.CreatedAt
		}

		overall.TotalRevenue += order.TotalAmount
		overall.TotalOrders++
	}

	overall.TotalCustomers = len(byUser)
	if overall.TotalCustomers > 0 {
		overall.AverageCLV = overall.TotalRevenue / float64(overall.TotalCustomers)
	}
	if overall.TotalOrders > 0 {
		overall.AverageOrderValue = overall.TotalRevenue / float64(overall.TotalOrders)
	}

	customers := make([]CustomerValue, 0, len(byUser))
	for _, row := range byUser {
		if row.OrderCount < minOrders {
			continue
		}
		row.AverageOrderValue = row.TotalSpent / float64(row.OrderCount)
		row.LifetimeDays = int(row.LastOrder.Sub(row.FirstOrder).Hours() / 24)
		customers = append(customers, *row)
	}

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].TotalSpent != customers[j].TotalSpent {
			return customers[i].TotalSpent > customers[j].TotalSpent
		}
		return customers[i].UserID < customers[j].UserID
	})

	if limit > 0 && len(customers) > limit {
		customers = customers[:limit]
	}

	return CLVReport{Customers: customers, Overall: overall}
}
