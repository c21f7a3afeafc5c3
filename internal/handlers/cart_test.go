package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func testProduct(name string, price float64, stock int) models.Product {
	return models.Product{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Price: price,
		Stock: stock,
	}
}

func TestApplyAddItemNewLine(t *testing.T) {
	product := testProduct("Oil Filter", 25, 10)

	items, err := applyAddItem(nil, product, 3)
	if err != nil {
		t.Fatalf("applyAddItem returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Quantity != 3 || items[0].Price != 25 || items[0].Name != "Oil Filter" {
		t.Fatalf("unexpected line: %+v", items[0])
	}
	if total := cartTotal(items); total != 75 {
		t.Fatalf("expected total 75, got %v", total)
	}
}

func TestApplyAddItemIncrementsExistingLine(t *testing.T) {
	product := testProduct("Oil Filter", 25, 10)
	items, _ := applyAddItem(nil, product, 3)

	items, err := applyAddItem(items, product, 2)
	if err != nil {
		t.Fatalf("applyAddItem returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected merged line, got %d items", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestApplyAddItemInsufficientStock(t *testing.T) {
	product := testProduct("Oil Filter", 25, 4)
	items, _ := applyAddItem(nil, product, 3)

	_, err := applyAddItem(items, product, 2)
	var stockErr insufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficientStockError, got %v", err)
	}
	if stockErr.Available != 4 || stockErr.Requested != 5 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}
}

func TestApplyAddItemQuantityBounds(t *testing.T) {
	product := testProduct("Oil Filter", 25, 500)

	if _, err := applyAddItem(nil, product, 0); err == nil {
		t.Fatal("expected error for quantity 0")
	}
	if _, err := applyAddItem(nil, product, 100); err == nil {
		t.Fatal("expected error for quantity over cap")
	}

	items, _ := applyAddItem(nil, product, 99)
	if _, err := applyAddItem(items, product, 1); err == nil {
		t.Fatal("expected error when merged quantity exceeds cap")
	}
}

func TestApplyAddItemDoesNotMutateInput(t *testing.T) {
	product := testProduct("Oil Filter", 25, 10)
	original, _ := applyAddItem(nil, product, 3)

	if _, err := applyAddItem(original, product, 2); err != nil {
		t.Fatalf("applyAddItem returned error: %v", err)
	}
	if original[0].Quantity != 3 {
		t.Fatalf("input slice mutated: quantity %d", original[0].Quantity)
	}
}

func TestApplyUpdateQuantity(t *testing.T) {
	product := testProduct("Oil Filter", 25, 10)
	items, _ := applyAddItem(nil, product, 3)

	updated, err := applyUpdateQuantity(items, product.ID, 7, product.Stock)
	if err != nil {
		t.Fatalf("applyUpdateQuantity returned error: %v", err)
	}
	if updated[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", updated[0].Quantity)
	}
	if total := cartTotal(updated); total != 175 {
		t.Fatalf("expected total 175, got %v", total)
	}
}

func TestApplyUpdateQuantityRechecksStock(t *testing.T) {
	product := testProduct("Oil Filter", 25, 10)
	items, _ := applyAddItem(nil, product, 3)

	// stock dropped to 5 since the item was added
	_, err := applyUpdateQuantity(items, product.ID, 7, 5)
	var stockErr insufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficientStockError, got %v", err)
	}
}

func TestApplyUpdateQuantityMissingItem(t *testing.T) {
	_, err := applyUpdateQuantity(nil, primitive.NewObjectID(), 1, 10)
	if err != errItemNotInCart {
		t.Fatalf("expected errItemNotInCart, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	oil := testProduct("Oil Filter", 25, 10)
	brake := testProduct("Brake Pads", 60, 10)
	items, _ := applyAddItem(nil, oil, 2)
	items, _ = applyAddItem(items, brake, 1)

	updated, removed := removeItem(items, oil.ID)
	if !removed {
		t.Fatal("expected item to be removed")
	}
	if len(updated) != 1 || updated[0].ProductID != brake.ID {
		t.Fatalf("unexpected items after remove: %+v", updated)
	}
	if total := cartTotal(updated); total != 60 {
		t.Fatalf("expected total 60, got %v", total)
	}

	if _, removed := removeItem(updated, oil.ID); removed {
		t.Fatal("removing an absent item should report false")
	}
}
