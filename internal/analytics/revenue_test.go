package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func paidOrder(user primitive.ObjectID, amount float64, at time.Time) models.Order {
	return models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        user,
		TotalAmount:   amount,
		Status:        "delivered",
		PaymentStatus: "paid",
		CreatedAt:     at,
	}
}

func TestPeriodKey(t *testing.T) {
	at := time.Date(2025, time.May, 7, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-05-07", PeriodKey(at, "day"))
	assert.Equal(t, "2025-W19", PeriodKey(at, "week"))
	assert.Equal(t, "2025-05", PeriodKey(at, "month"))
	assert.Equal(t, "2025-Q2", PeriodKey(at, "quarter"))
	assert.Equal(t, "2025", PeriodKey(at, "year"))
	assert.Equal(t, "2025-05", PeriodKey(at, "bogus"), "unknown period falls back to month")
}

func TestRevenueByPeriodGroupsAndSums(t *testing.T) {
	user := primitive.NewObjectID()
	may := time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		paidOrder(user, 100, may),
		paidOrder(user, 50, may.AddDate(0, 0, 10)),
		paidOrder(user, 200, june),
	}
	unpaid := paidOrder(user, 999, june)
	unpaid.PaymentStatus = "pending"
	orders = append(orders, unpaid)

	buckets := RevenueByPeriod(orders, "month", 12)

	require.Len(t, buckets, 2)
	assert.Equal(t, RevenueBucket{Period: "2025-05", Revenue: 150, Orders: 2}, buckets[0])
	assert.Equal(t, RevenueBucket{Period: "2025-06", Revenue: 200, Orders: 1}, buckets[1])
}

func TestRevenueByPeriodKeepsMostRecentBuckets(t *testing.T) {
	user := primitive.NewObjectID()
	var orders []models.Order
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		orders = append(orders, paidOrder(user, 10, start.AddDate(0, i, 0)))
	}

	buckets := RevenueByPeriod(orders, "month", 12)

	require.Len(t, buckets, 12)
	assert.Equal(t, "2024-04", buckets[0].Period, "oldest three months dropped")
	assert.Equal(t, "2025-03", buckets[11].Period)
}

func TestRevenueByPeriodDefaultsLimit(t *testing.T) {
	buckets := RevenueByPeriod(nil, "month", 0)
	assert.Empty(t, buckets)
}
