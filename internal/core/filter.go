package core

import "sort"

// EntryFilter narrows a collection the way the history view does. Zero
// fields mean "no restriction"; the date range is inclusive on both ends.
type EntryFilter struct {
	From     Date
	To       Date
	Category Category
	Payment  PaymentMethod
}

// FilterEntries returns the entries matching every set criterion. The input
// slice is not modified.
func FilterEntries(entries []Entry, f EntryFilter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !f.From.IsZero() && e.Date.Before(f.From.Time) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To.Time) {
			continue
		}
		if f.Category != "" && EntryCategory(e) != f.Category {
			continue
		}
		if f.Payment != "" && e.PaymentMethod != f.Payment {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortEntriesDesc orders entries most recent first by date then time of day.
func SortEntriesDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		return a.Time > b.Time
	})
}

// RecentStores returns up to limit distinct store names of income entries,
// most recently used first. Feeds the quick-launch suggestions.
func RecentStores(entries []Entry, limit int) []string {
	seen := make(map[string]struct{})
	stores := make([]string, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(stores) < limit; i-- {
		e := entries[i]
		if !e.GrossAmount.IsPositive() || e.StoreName == "" {
			continue
		}
		if _, ok := seen[e.StoreName]; ok {
			continue
		}
		seen[e.StoreName] = struct{}{}
		stores = append(stores, e.StoreName)
	}
	return stores
}
