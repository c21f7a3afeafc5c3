package insights

import (
	"fmt"
	"sort"

	"partstore/internal/analytics"
)

const maxRecommendations = 10

type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

var priorityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// Recommendations derives action items from the forecast, churn and stock
// outputs. One recommendation per triggering condition, sorted by priority
// and capped at 10.
func Recommendations(forecast []ForecastPoint, churn []ChurnRisk, alerts []analytics.StockAlert) []Recommendation {
	recs := make([]Recommendation, 0, 4)

	if growth, ok := forecastGrowthPct(forecast); ok {
		if growth > 20 {
			recs = append(recs, Recommendation{
				Type:     "demand_growth",
				Priority: "high",
				Message:  fmt.Sprintf("Forecasted demand is up %.0f%% over the last observed period; consider increasing purchase orders.", growth),
			})
		} else if growth < -10 {
			recs = append(recs, Recommendation{
				Type:     "demand_decline",
				Priority: "medium",
				Message:  fmt.Sprintf("Forecasted demand is down %.0f%%; review planned stock levels.", -growth),
			})
		}
	}

	highRisk, mediumRisk := 0, 0
	for _, risk := range churn {
		switch risk.RiskLevel {
		case "high":
			highRisk++
		case "medium":
			mediumRisk++
		}
	}
	if highRisk >= 1 {
		recs = append(recs, Recommendation{
			Type:     "retention",
			Priority: "high",
			Message:  fmt.Sprintf("%d customer(s) at high churn risk; consider a win-back campaign.", highRisk),
		})
	}
	if mediumRisk > 5 {
		recs = append(recs, Recommendation{
			Type:     "retention_watch",
			Priority: "medium",
			Message:  fmt.Sprintf("%d customers at medium churn risk; keep monitoring engagement.", mediumRisk),
		})
	}

	urgent := 0
	for _, alert := range alerts {
		if alert.AlertLevel == analytics.AlertWarning || alert.AlertLevel == analytics.AlertCritical {
			urgent++
		}
	}
	if urgent > 0 {
		recs = append(recs, Recommendation{
			Type:     "restock",
			Priority: "high",
			Message:  fmt.Sprintf("%d product(s) at warning or critical stock levels need restocking.", urgent),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// forecastGrowthPct compares the newest forecast against the last observed
// actual demand.
func forecastGrowthPct(forecast []ForecastPoint) (float64, bool) {
	if len(forecast) == 0 {
		return 0, false
	}

	last := forecast[len(forecast)-1]

	var priorActual float64
	for i := len(forecast) - 1; i >= 0; i-- {
		if forecast[i].ActualDemand > 0 {
			priorActual = float64(forecast[i].ActualDemand)
			break
		}
	}
	if priorActual == 0 {
		return 0, false
	}

	return (last.Forecast - priorActual) / priorActual * 100, true
}
