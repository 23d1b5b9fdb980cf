package core

import "sort"

// WeekGroup is one Monday–Sunday reconciliation bucket.
type WeekGroup struct {
	Start   Date          `json:"startDate"`
	End     Date          `json:"endDate"`
	Summary WeeklySummary `json:"summary"`
}

// GroupByWeek partitions the entry history into consecutive calendar-week
// buckets (Monday start, ISO convention) and summarizes each. Weeks with no
// entries are omitted. Most recent week first.
func GroupByWeek(entries []Entry) []WeekGroup {
	buckets := make(map[string][]Entry)
	starts := make(map[string]Date)
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		start := StartOfWeek(e.Date)
		key := start.String()
		buckets[key] = append(buckets[key], e)
		starts[key] = start
	}

	groups := make([]WeekGroup, 0, len(buckets))
	for key, bucket := range buckets {
		start := starts[key]
		groups = append(groups, WeekGroup{
			Start:   start,
			End:     start.AddDays(6),
			Summary: Summarize(bucket),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Start.After(groups[j].Start.Time)
	})
	return groups
}
