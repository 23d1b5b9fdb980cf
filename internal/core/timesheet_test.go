package core

import "testing"

func TestTimeEntryDuration(t *testing.T) {
	cases := []struct {
		name  string
		entry TimeEntry
		want  int
	}{
		{"plain shift", TimeEntry{StartTime: "08:00", EndTime: "16:30"}, 510},
		{"with break", TimeEntry{StartTime: "08:00", EndTime: "16:30", BreakMinutes: 60}, 450},
		{"crosses midnight", TimeEntry{StartTime: "22:00", EndTime: "02:00"}, 240},
		{"break longer than shift", TimeEntry{StartTime: "08:00", EndTime: "08:30", BreakMinutes: 60}, 0},
		{"still open", TimeEntry{StartTime: "08:00"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.entry.Duration()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d minutes, got %d", tc.want, got)
			}
		})
	}

	t.Run("bad time", func(t *testing.T) {
		if _, err := (TimeEntry{StartTime: "not a time", EndTime: "16:00"}).Duration(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestWorkedMinutesByDay(t *testing.T) {
	day := NewDate(2025, 3, 10)
	entries := []TimeEntry{
		{ID: "1", Date: day, StartTime: "08:00", EndTime: "12:00"},
		{ID: "2", Date: day, StartTime: "14:00", EndTime: "18:00", BreakMinutes: 30},
		{ID: "3", Date: day.AddDays(1), StartTime: "09:00"}, // open, ignored
	}
	totals := WorkedMinutesByDay(entries)
	if got := totals[day.String()]; got != 450 {
		t.Fatalf("expected 450 minutes, got %d", got)
	}
	if len(totals) != 1 {
		t.Fatalf("open shifts must not appear, got %v", totals)
	}
}

func TestActiveShift(t *testing.T) {
	day := NewDate(2025, 3, 10)
	entries := []TimeEntry{
		{ID: "closed", Date: day, StartTime: "08:00", EndTime: "12:00"},
		{ID: "open", Date: day, StartTime: "14:00"},
	}
	got := ActiveShift(entries, day)
	if got == nil || got.ID != "open" {
		t.Fatalf("expected the open shift, got %v", got)
	}
	if ActiveShift(entries, day.AddDays(1)) != nil {
		t.Fatal("no shift expected on the next day")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(450); got != "7h 30min" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDuration(65); got != "1h 05min" {
		t.Fatalf("got %q", got)
	}
}
