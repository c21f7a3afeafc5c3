package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemandForecastTooLittleHistory(t *testing.T) {
	assert.Empty(t, DemandForecast(nil))
	assert.Empty(t, DemandForecast([]PeriodDemand{
		{Period: "2025-01", Orders: 10},
		{Period: "2025-02", Orders: 12},
	}))
}

func TestDemandForecastMovingAverage(t *testing.T) {
	history := []PeriodDemand{
		{Period: "2025-01", Orders: 10},
		{Period: "2025-02", Orders: 20},
		{Period: "2025-03", Orders: 30},
		{Period: "2025-04", Orders: 40},
	}

	points := DemandForecast(history)

	require.Len(t, points, 2)

	assert.Equal(t, "2025-04", points[0].Period)
	assert.Equal(t, 20.0, points[0].Forecast)
	assert.Equal(t, 40, points[0].ActualDemand)

	// final point reaches one month past the data and has no actual yet
	assert.Equal(t, "2025-05", points[1].Period)
	assert.Equal(t, 30.0, points[1].Forecast)
	assert.Equal(t, 0, points[1].ActualDemand)
}

func TestDemandForecastYearRollover(t *testing.T) {
	history := []PeriodDemand{
		{Period: "2024-10", Orders: 5},
		{Period: "2024-11", Orders: 5},
		{Period: "2024-12", Orders: 5},
	}

	points := DemandForecast(history)

	require.Len(t, points, 1)
	assert.Equal(t, "2025-01", points[0].Period)
	assert.Equal(t, 5.0, points[0].Forecast)
}
