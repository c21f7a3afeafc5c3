package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func TestCustomerLifetimeValue(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		paidOrder(alice, 100, start),
		paidOrder(alice, 50, start.AddDate(0, 0, 10)),
		paidOrder(bob, 200, start.AddDate(0, 0, 5)),
	}

	report := CustomerLifetimeValue(orders, 50, 1)

	require.Len(t, report.Customers, 2)

	// sorted by totalSpent descending
	assert.Equal(t, bob.Hex(), report.Customers[0].UserID)
	assert.Equal(t, 200.0, report.Customers[0].TotalSpent)
	assert.Equal(t, 0, report.Customers[0].LifetimeDays)

	assert.Equal(t, alice.Hex(), report.Customers[1].UserID)
	assert.Equal(t, 150.0, report.Customers[1].TotalSpent)
	assert.Equal(t, 2, report.Customers[1].OrderCount)
	assert.Equal(t, 75.0, report.Customers[1].AverageOrderValue)
	assert.Equal(t, 10, report.Customers[1].LifetimeDays)

	assert.Equal(t, 350.0, report.Overall.TotalRevenue)
	assert.Equal(t, 3, report.Overall.TotalOrders)
	assert.Equal(t, 2, report.Overall.TotalCustomers)
	assert.Equal(t, 175.0, report.Overall.AverageCLV)
	assert.InDelta(t, 116.67, report.Overall.AverageOrderValue, 0.01)
}

func TestCustomerLifetimeValueMinOrdersFiltersListNotOverall(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		paidOrder(alice, 100, start),
		paidOrder(alice, 100, start.AddDate(0, 0, 1)),
		paidOrder(bob, 500, start),
	}

	report := CustomerLifetimeValue(orders, 50, 2)

	require.Len(t, report.Customers, 1)
	assert.Equal(t, alice.Hex(), report.Customers[0].UserID)

	// bob still counts toward the population metrics
	assert.Equal(t, 700.0, report.Overall.TotalRevenue)
	assert.Equal(t, 2, report.Overall.TotalCustomers)
	assert.Equal(t, 350.0, report.Overall.AverageCLV)
}

func TestCustomerLifetimeValueIgnoresUnpaid(t *testing.T) {
	user := primitive.NewObjectID()
	order := paidOrder(user, 100, time.Now())
	order.PaymentStatus = "refunded"

	report := CustomerLifetimeValue([]models.Order{order}, 50, 1)

	assert.Empty(t, report.Customers)
	assert.Equal(t, 0.0, report.Overall.TotalRevenue)
}

func TestCustomerLifetimeValueLimit(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	var orders []models.Order
	for i := 0; i < 5; i++ {
		orders = append(orders, paidOrder(primitive.NewObjectID(), float64(100+i), start))
	}

	report := CustomerLifetimeValue(orders, 3, 1)

	require.Len(t, report.Customers, 3)
	assert.Equal(t, 104.0, report.Customers[0].TotalSpent)
	assert.Equal(t, 5, report.Overall.TotalCustomers)
}
