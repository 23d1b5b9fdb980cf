package core

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day. It marshals as ISO 8601 YYYY-MM-DD, matching the
// persisted entry format.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Today returns the current date in the local timezone, truncated to the day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StartOfWeek returns the Monday of the ISO week containing d.
func StartOfWeek(d Date) Date {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return d.AddDays(-offset)
}

// EndOfWeek returns the Sunday of the ISO week containing d.
func EndOfWeek(d Date) Date {
	return StartOfWeek(d).AddDays(6)
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b Date) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ValidTimeOfDay checks an HH:MM wall-clock string.
func ValidTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// CurrentTimeOfDay returns the local wall clock as HH:MM.
func CurrentTimeOfDay() string {
	return time.Now().Format("15:04")
}
