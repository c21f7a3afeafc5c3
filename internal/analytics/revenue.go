package analytics

import (
	"sort"

	"partstore/internal/models"
)

const DefaultRevenueLimit = 12

// RevenueBucket aggregates paid orders that share a period key.
type RevenueBucket struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// RevenueByPeriod groups paid orders by formatted period key and sums total
// and count. Buckets come back ascending by key; when there are more buckets
// than limit, the oldest are dropped so the report covers the most recent
// periods.
func RevenueByPeriod(orders []models.Order, period string, limit int) []RevenueBucket {
	if limit <= 0 {
		limit = DefaultRevenueLimit
	}

	byKey := make(map[string]*RevenueBucket)
	for _, order := range orders {
		if order.PaymentStatus != "paid" {
			continue
		}
		key := PeriodKey(order.CreatedAt, period)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &RevenueBucket{Period: key}
			byKey[key] = bucket
		}
		bucket.Revenue += order.TotalAmount
		bucket.Orders++
	}

	buckets := make([]RevenueBucket, 0, len(byKey))
	for _, bucket := range byKey {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })

	if len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}
	return buckets
}
