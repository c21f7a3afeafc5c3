package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func orderWithItems(items ...models.OrderItem) models.Order {
	return models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        primitive.NewObjectID(),
		Items:         items,
		PaymentStatus: "paid",
		CreatedAt:     time.Now(),
	}
}

func TestInventoryTurnover(t *testing.T) {
	fast := stockedProduct("Oil Filter", "filters", 10)
	slow := stockedProduct("Roof Rack", "exterior", 20)
	unsold := stockedProduct("Wiper Blade", "exterior", 5)

	orders := []models.Order{
		orderWithItems(models.OrderItem{ProductID: fast.ID, Quantity: 40}),
		orderWithItems(
			models.OrderItem{ProductID: slow.ID, Quantity: 3},
		),
	}

	report := InventoryTurnover(orders, []models.Product{fast, slow, unsold}, 30, 50)

	require.Len(t, report.Products, 2, "zero-sales products are excluded")
	assert.Equal(t, 30, report.WindowDays)

	assert.Equal(t, "Oil Filter", report.Products[0].Name)
	assert.Equal(t, 40, report.Products[0].UnitsSold)
	assert.Equal(t, 4.0, report.Products[0].TurnoverRatio)
	require.NotNil(t, report.Products[0].TurnoverDays)
	assert.Equal(t, 7.5, *report.Products[0].TurnoverDays)

	assert.Equal(t, "Roof Rack", report.Products[1].Name)
	assert.Equal(t, 0.15, report.Products[1].TurnoverRatio)

	assert.Equal(t, 1, report.FastMoving, "ratio 4.0 sits on the fast boundary")
	assert.Equal(t, 1, report.SlowMoving)
}

func TestInventoryTurnoverZeroStock(t *testing.T) {
	soldOut := stockedProduct("Brake Pads", "brakes", 0)
	orders := []models.Order{
		orderWithItems(models.OrderItem{ProductID: soldOut.ID, Quantity: 5}),
	}

	report := InventoryTurnover(orders, []models.Product{soldOut}, 30, 50)

	require.Len(t, report.Products, 1)
	assert.Equal(t, 0.0, report.Products[0].TurnoverRatio)
	assert.Nil(t, report.Products[0].TurnoverDays)
	assert.Equal(t, 1, report.SlowMoving)
}

func TestInventoryTurnoverLimit(t *testing.T) {
	products := make([]models.Product, 0, 5)
	orders := make([]models.Order, 0, 5)
	for i := 0; i < 5; i++ {
		p := stockedProduct("Part", "misc", 10)
		products = append(products, p)
		orders = append(orders, orderWithItems(models.OrderItem{ProductID: p.ID, Quantity: i + 1}))
	}

	report := InventoryTurnover(orders, products, 30, 2)

	assert.Len(t, report.Products, 2)
}
