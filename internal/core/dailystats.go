package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DayStat is one day's gross total measured against the daily goal.
type DayStat struct {
	Date    Date            `json:"date"`
	Gross   decimal.Decimal `json:"gross"`
	GoalMet bool            `json:"goalMet"`
}

// DailyStats groups entries by calendar day and flags the days whose gross
// met the configured goal. Only days that have entries appear; most recent
// day first.
func DailyStats(entries []Entry, dailyGoal decimal.Decimal) []DayStat {
	byDay := make(map[string]decimal.Decimal)
	dates := make(map[string]Date)
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		key := e.Date.String()
		byDay[key] = byDay[key].Add(e.GrossAmount)
		dates[key] = e.Date
	}

	stats := make([]DayStat, 0, len(byDay))
	for key, gross := range byDay {
		stats = append(stats, DayStat{
			Date:    dates[key],
			Gross:   gross,
			GoalMet: dailyGoal.IsPositive() && gross.GreaterThanOrEqual(dailyGoal),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date.After(stats[j].Date.Time)
	})
	return stats
}
