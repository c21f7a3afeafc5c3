package models

import "testing"

func TestLoyaltyTierFor(t *testing.T) {
	cases := []struct {
		spent float64
		tier  string
	}{
		{0, "bronze"},
		{499.99, "bronze"},
		{500, "silver"},
		{1999.99, "silver"},
		{2000, "gold"},
		{4999.99, "gold"},
		{5000, "platinum"},
		{12000, "platinum"},
	}
	for _, tc := range cases {
		if got := LoyaltyTierFor(tc.spent); got != tc.tier {
			t.Fatalf("LoyaltyTierFor(%v) = %q, expected %q", tc.spent, got, tc.tier)
		}
	}
}
