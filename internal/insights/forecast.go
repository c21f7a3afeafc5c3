package insights

import (
	"time"

	"github.com/montanaflynn/stats"
)

// ForecastAccuracyPct is the accuracy figure shown alongside the forecast.
// It is a fixed display constant, not a computed error bound.
const ForecastAccuracyPct = 85

// PeriodDemand is one observed month of order volume, period formatted as
// "2006-01". Input must be sorted ascending by period.
type PeriodDemand struct {
	Period string `json:"period"`
	Orders int    `json:"orders"`
}

// ForecastPoint predicts demand for Period. ActualDemand is 0 when the
// period has not been observed yet.
type ForecastPoint struct {
	Period       string  `json:"period"`
	ActualDemand int     `json:"actualDemand"`
	Forecast     float64 `json:"forecast"`
}

// DemandForecast runs a trailing 3-period moving average over the history.
// Each window i-2..i forecasts the month following period i, so the final
// point always reaches one month past the known data. Fewer than 3 periods
// yields no forecast at all.
func DemandForecast(history []PeriodDemand) []ForecastPoint {
	if len(history) < 3 {
		return []ForecastPoint{}
	}

	points := make([]ForecastPoint, 0, len(history)-2)
	for i := 2; i < len(history); i++ {
		window := []float64{
			float64(history[i-2].Orders),
			float64(history[i-1].Orders),
			float64(history[i].Orders),
		}
		avg, err := stats.Mean(window)
		if err != nil {
			continue
		}

		point := ForecastPoint{
			Period:   nextMonth(history[i].Period),
			Forecast: avg,
		}
		if i+1 < len(history) {
			point.ActualDemand = history[i+1].Orders
		}
		points = append(points, point)
	}

	return points
}

func nextMonth(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return period
	}
	return t.AddDate(0, 1, 0).Format("2006-01")
}
