package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChurnScoreBoundaries(t *testing.T) {
	// every component saturated at its boundary
	assert.Equal(t, 70.0, ChurnScore(90, 30, 1000))

	// nothing contributes
	assert.Equal(t, 0.0, ChurnScore(0, 0, 1000))

	// all components maxed
	assert.Equal(t, 100.0, ChurnScore(180, 60, 0))
}

func TestChurnScoreSpendComponent(t *testing.T) {
	// 500 of 1000 spent leaves half the spend component
	assert.Equal(t, 15.0, ChurnScore(0, 0, 500))

	// spend beyond 1000 never goes negative
	assert.Equal(t, 0.0, ChurnScore(0, 0, 5000))
}

func TestRiskLevelForInclusiveBoundaries(t *testing.T) {
	assert.Equal(t, "high", RiskLevelFor(70))
	assert.Equal(t, "medium", RiskLevelFor(69.9))
	assert.Equal(t, "medium", RiskLevelFor(40))
	assert.Equal(t, "low", RiskLevelFor(39.9))
}

func TestChurnRisks(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	customers := []CustomerActivity{
		{
			UserID: "dormant",
			Name:   "Dormant",
			OrderDates: []time.Time{
				now.AddDate(0, 0, -200),
				now.AddDate(0, 0, -140),
			},
			TotalSpent: 100,
		},
		{
			UserID: "regular",
			Name:   "Regular",
			OrderDates: []time.Time{
				now.AddDate(0, 0, -20),
				now.AddDate(0, 0, -10),
				now.AddDate(0, 0, -3),
			},
			TotalSpent: 2500,
		},
		{UserID: "never-ordered", Name: "Nobody"},
	}

	risks := ChurnRisks(customers, now)

	require.Len(t, risks, 2, "customers without orders are skipped")

	assert.Equal(t, "dormant", risks[0].UserID, "sorted by score descending")
	assert.Equal(t, 140, risks[0].DaysSinceLastOrder)
	assert.Equal(t, 60.0, risks[0].AvgOrderFrequency)
	assert.Equal(t, "high", risks[0].RiskLevel)

	assert.Equal(t, "regular", risks[1].UserID)
	assert.Equal(t, 3, risks[1].DaysSinceLastOrder)
	assert.InDelta(t, 8.5, risks[1].AvgOrderFrequency, 0.01)
	assert.Equal(t, "low", risks[1].RiskLevel)
}

func TestChurnRisksSingleOrderUsesDefaultGap(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	risks := ChurnRisks([]CustomerActivity{
		{UserID: "one", OrderDates: []time.Time{now.AddDate(0, 0, -10)}, TotalSpent: 300},
	}, now)

	require.Len(t, risks, 1)
	assert.Equal(t, float64(defaultOrderGapDays), risks[0].AvgOrderFrequency)
}
