package analytics

import (
	"fmt"
	"time"
)

// PeriodKey formats a timestamp into a grouping key. Keys sort
// lexicographically in chronological order.
func PeriodKey(t time.Time, period string) string {
	switch period {
	case "day":
		return t.Format("2006-01-02")
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "year":
		return t.Format("2006")
	case "quarter":
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	default: // month
		return t.Format("2006-01")
	}
}

// WindowDays maps a lookback period name to its day count.
func WindowDays(period string) int {
	switch period {
	case "quarter":
		return 90
	case "year":
		return 365
	default: // month
		return 30
	}
}
