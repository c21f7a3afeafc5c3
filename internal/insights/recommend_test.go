package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstore/internal/analytics"
)

func TestRecommendationsDemandGrowth(t *testing.T) {
	forecast := []ForecastPoint{
		{Period: "2025-04", Forecast: 10, ActualDemand: 10},
		{Period: "2025-05", Forecast: 13, ActualDemand: 0},
	}

	recs := Recommendations(forecast, nil, nil)

	require.Len(t, recs, 1)
	assert.Equal(t, "demand_growth", recs[0].Type)
	assert.Equal(t, "high", recs[0].Priority)
}

func TestRecommendationsDemandDecline(t *testing.T) {
	forecast := []ForecastPoint{
		{Period: "2025-04", Forecast: 10, ActualDemand: 20},
		{Period: "2025-05", Forecast: 15, ActualDemand: 0},
	}

	recs := Recommendations(forecast, nil, nil)

	require.Len(t, recs, 1)
	assert.Equal(t, "demand_decline", recs[0].Type)
	assert.Equal(t, "medium", recs[0].Priority)
}

func TestRecommendationsModestChangeStaysQuiet(t *testing.T) {
	forecast := []ForecastPoint{
		{Period: "2025-04", Forecast: 10, ActualDemand: 10},
		{Period: "2025-05", Forecast: 11, ActualDemand: 0},
	}

	assert.Empty(t, Recommendations(forecast, nil, nil))
}

func TestRecommendationsChurnThresholds(t *testing.T) {
	churn := []ChurnRisk{{RiskLevel: "high"}}
	recs := Recommendations(nil, churn, nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "retention", recs[0].Type)

	// exactly five medium-risk customers is not enough
	churn = make([]ChurnRisk, 5)
	for i := range churn {
		churn[i].RiskLevel = "medium"
	}
	assert.Empty(t, Recommendations(nil, churn, nil))

	churn = append(churn, ChurnRisk{RiskLevel: "medium"})
	recs = Recommendations(nil, churn, nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "retention_watch", recs[0].Type)
}

func TestRecommendationsRestock(t *testing.T) {
	alerts := []analytics.StockAlert{
		{AlertLevel: analytics.AlertWarning},
		{AlertLevel: analytics.AlertCritical},
		{AlertLevel: analytics.AlertLow},
	}

	recs := Recommendations(nil, nil, alerts)

	require.Len(t, recs, 1)
	assert.Equal(t, "restock", recs[0].Type)
	assert.Equal(t, "high", recs[0].Priority)
}

func TestRecommendationsSortedByPriority(t *testing.T) {
	forecast := []ForecastPoint{
		{Period: "2025-04", Forecast: 10, ActualDemand: 20},
		{Period: "2025-05", Forecast: 15, ActualDemand: 0},
	}
	churn := []ChurnRisk{{RiskLevel: "high"}}

	recs := Recommendations(forecast, churn, nil)

	require.Len(t, recs, 2)
	assert.Equal(t, "retention", recs[0].Type, "high priority first")
	assert.Equal(t, "demand_decline", recs[1].Type)
}
