package core

import (
	"fmt"
	"time"
)

// TimeEntry is one work shift: clock-in, optional clock-out, break minutes.
// A shift with no EndTime is still open.
type TimeEntry struct {
	ID           string `json:"id"`
	Date         Date   `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime,omitempty"`
	BreakMinutes int    `json:"breakDuration,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Open reports whether the shift has not been clocked out yet.
func (t TimeEntry) Open() bool {
	return t.EndTime == ""
}

// Duration returns the worked minutes of a closed shift, break deducted and
// clamped at zero. Open shifts count as zero.
func (t TimeEntry) Duration() (int, error) {
	if t.Open() {
		return 0, nil
	}
	start, err := time.Parse("15:04", t.StartTime)
	if err != nil {
		return 0, fmt.Errorf("parse start time: %w", ErrInvalidTimeOfDay)
	}
	end, err := time.Parse("15:04", t.EndTime)
	if err != nil {
		return 0, fmt.Errorf("parse end time: %w", ErrInvalidTimeOfDay)
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		// shift crossed midnight
		minutes += 24 * 60
	}
	minutes -= t.BreakMinutes
	if minutes < 0 {
		minutes = 0
	}
	return minutes, nil
}

// WorkedMinutesByDay totals closed-shift minutes per calendar day, keyed by
// the date's YYYY-MM-DD form. Shifts with unparseable times are skipped.
func WorkedMinutesByDay(entries []TimeEntry) map[string]int {
	totals := make(map[string]int)
	for _, t := range entries {
		if t.Open() || t.Date.IsZero() {
			continue
		}
		minutes, err := t.Duration()
		if err != nil {
			continue
		}
		totals[t.Date.String()] += minutes
	}
	return totals
}

// ActiveShift returns the open shift for the given day, or nil.
func ActiveShift(entries []TimeEntry, day Date) *TimeEntry {
	for i := range entries {
		if entries[i].Open() && entries[i].Date.Equal(day.Time) {
			return &entries[i]
		}
	}
	return nil
}

// FormatDuration renders minutes as "7h 30min".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %02dmin", minutes/60, minutes%60)
}
