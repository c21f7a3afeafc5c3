package insights

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

const defaultOrderGapDays = 30

// CustomerActivity is the per-customer order history fed into churn scoring.
type CustomerActivity struct {
	UserID     string
	Name       string
	OrderDates []time.Time
	TotalSpent float64
}

// ChurnRisk is a heuristic 0-100 composite, not a fitted model. Larger order
// gaps and lower spend both push the score up.
type ChurnRisk struct {
	UserID             string  `json:"userId"`
	Name               string  `json:"name"`
	DaysSinceLastOrder int     `json:"daysSinceLastOrder"`
	AvgOrderFrequency  float64 `json:"avgOrderFrequency"`
	TotalSpent         float64 `json:"totalSpent"`
	Score              float64 `json:"score"`
	RiskLevel          string  `json:"riskLevel"`
}

// ChurnScore combines recency (max 40), order frequency (max 30) and spend
// (max 30, only meaningful below 1000 total spent).
func ChurnScore(daysSinceLastOrder int, avgOrderFrequency, totalSpent float64) float64 {
	recency := minFloat(float64(daysSinceLastOrder)/90, 1) * 40
	frequency := minFloat(avgOrderFrequency/30, 1) * 30
	spend := maxFloat(0, (1000-totalSpent)/1000) * 30
	return recency + frequency + spend
}

// RiskLevelFor buckets a score; both boundaries are inclusive.
func RiskLevelFor(score float64) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}

// ChurnRisks scores every customer with at least one order and returns them
// sorted descending by score.
func ChurnRisks(customers []CustomerActivity, now time.Time) []ChurnRisk {
	risks := make([]ChurnRisk, 0, len(customers))

	for _, customer := range customers {
		if len(customer.OrderDates) == 0 {
			continue
		}

		dates := append([]time.Time(nil), customer.OrderDates...)
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		daysSinceLast := int(now.Sub(dates[len(dates)-1]).Hours() / 24)

		avgFrequency := float64(defaultOrderGapDays)
		if len(dates) > 1 {
			gaps := make([]float64, 0, len(dates)-1)
			for i := 1; i < len(dates); i++ {
				gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
			}
			if mean, err := stats.Mean(gaps); err == nil {
				avgFrequency = mean
			}
		}

		score := ChurnScore(daysSinceLast, avgFrequency, customer.TotalSpent)
		risks = append(risks, ChurnRisk{
			UserID:             customer.UserID,
			Name:               customer.Name,
			DaysSinceLastOrder: daysSinceLast,
			AvgOrderFrequency:  avgFrequency,
			TotalSpent:         customer.TotalSpent,
			Score:              score,
			RiskLevel:          RiskLevelFor(score),
		})
	}

	sort.Slice(risks, func(i, j int) bool {
		if risks[i].Score != risks[j].Score {
			return risks[i].Score > risks[j].Score
		}
		return risks[i].UserID < risks[j].UserID
	})

	return risks
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
