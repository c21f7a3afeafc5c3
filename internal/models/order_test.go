package models

import "testing"

func TestValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		if !ValidOrderStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if ValidOrderStatus("teleported") {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestValidPaymentStatus(t *testing.T) {
	if !ValidPaymentStatus("paid") {
		t.Fatal("expected paid to be valid")
	}
	if ValidPaymentStatus("iou") {
		t.Fatal("expected unknown payment status to be invalid")
	}
}
