package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func TestMonthlyDemand(t *testing.T) {
	march := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{CreatedAt: april},
		{CreatedAt: march},
		{CreatedAt: march.AddDate(0, 0, 10)},
	}

	history := monthlyDemand(orders)

	if len(history) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(history))
	}
	if history[0].Period != "2025-03" || history[0].Orders != 2 {
		t.Fatalf("unexpected first period: %+v", history[0])
	}
	if history[1].Period != "2025-04" || history[1].Orders != 1 {
		t.Fatalf("unexpected second period: %+v", history[1])
	}
}

func TestCustomerActivity(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{UserID: alice, TotalAmount: 100, CreatedAt: base},
		{UserID: alice, TotalAmount: 50, CreatedAt: base.AddDate(0, 0, 5)},
		{UserID: bob, TotalAmount: 200, CreatedAt: base},
	}
	names := map[string]string{alice.Hex(): "Alice"}

	customers := customerActivity(orders, names)

	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}

	var aliceActivity, bobActivity bool
	for _, customer := range customers {
		switch customer.UserID {
		case alice.Hex():
			aliceActivity = true
			if customer.Name != "Alice" || customer.TotalSpent != 150 || len(customer.OrderDates) != 2 {
				t.Fatalf("unexpected activity: %+v", customer)
			}
		case bob.Hex():
			bobActivity = true
			if customer.Name != "" {
				t.Fatalf("expected empty name for unknown user, got %q", customer.Name)
			}
		}
	}
	if !aliceActivity || !bobActivity {
		t.Fatal("missing expected customers")
	}
}
