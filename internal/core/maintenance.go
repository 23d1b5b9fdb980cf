package core

import (
	"errors"
	"strings"
)

// UrgentKmThreshold is the remaining distance below which an alert turns
// urgent. Fixed, not user-configurable.
const UrgentKmThreshold = 1000.0

// MaintenanceAlert is interval configuration, not a transactional record.
// LastKm is only a baseline: it stops mattering once a real service entry
// matches the description.
type MaintenanceAlert struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	KmInterval  float64 `json:"kmInterval"`
	LastKm      float64 `json:"lastKm"`
}

func (a MaintenanceAlert) Validate() error {
	if strings.TrimSpace(a.Description) == "" {
		return errors.New("empty description")
	}
	if a.KmInterval <= 0 {
		return ErrInvalidKm
	}
	if a.LastKm < 0 {
		return ErrInvalidKm
	}
	return nil
}

// HistoryMatcher decides whether a service entry counts as history for an
// alert. The default free-text join is deliberately loose; isolating it here
// lets an exact-id join replace it without touching the arithmetic.
type HistoryMatcher interface {
	Matches(alert MaintenanceAlert, e Entry) bool
}

// SubstringMatcher matches the alert description as a case-insensitive
// substring of the entry's store name (marker included, which is harmless:
// descriptions never contain it).
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(alert MaintenanceAlert, e Entry) bool {
	return strings.Contains(strings.ToLower(e.StoreName), strings.ToLower(alert.Description))
}

// AlertStatus is the predictor's output for one configured alert.
type AlertStatus struct {
	Alert         MaintenanceAlert `json:"alert"`
	LastServiceKm float64          `json:"lastServiceKm"`
	NextDueKm     float64          `json:"nextDueKm"`
	KmRemaining   float64          `json:"kmRemaining"`
	CurrentKm     float64          `json:"currentKm"`
	Progress      float64          `json:"progress"`
	Urgent        bool             `json:"urgent"`
}

// MaxObservedKm returns the highest odometer-ish reading across all entries,
// treating each kmDriven or kmAtMaintenance value as an absolute position.
// This is the historical "current km" policy; it undercounts when kmDriven
// holds daily deltas. See CumulativeKm for the alternative.
func MaxObservedKm(entries []Entry) float64 {
	max := 0.0
	for _, e := range entries {
		km := e.KmDriven
		if km == 0 {
			km = e.KmAtMaintenance
		}
		if km > max {
			max = km
		}
	}
	return max
}

// CumulativeKm treats every kmDriven value as a per-day delta and sums them
// into an absolute running total. Service readings do not contribute; they
// are absolute values, not deltas.
func CumulativeKm(entries []Entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.KmDriven
	}
	return total
}

// PredictMaintenance evaluates every configured alert against the service
// history. currentKm is the caller's notion of "now" (MaxObservedKm by
// convention); matcher joins alerts to history entries.
func PredictMaintenance(alerts []MaintenanceAlert, entries []Entry, currentKm float64, matcher HistoryMatcher) []AlertStatus {
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	statuses := make([]AlertStatus, 0, len(alerts))
	for _, alert := range alerts {
		// max(kmAtMaintenance) over matching history, baseline when no match.
		lastServiceKm := alert.LastKm
		best := -1.0
		for _, e := range entries {
			if IsMaintenanceService(e) && matcher.Matches(alert, e) && e.KmAtMaintenance > best {
				best = e.KmAtMaintenance
			}
		}
		if best >= 0 {
			lastServiceKm = best
		}

		nextDue := lastServiceKm + alert.KmInterval
		remaining := nextDue - currentKm
		progress := 0.0
		if alert.KmInterval > 0 {
			progress = (currentKm - lastServiceKm) / alert.KmInterval
		}
		if progress < 0 {
			progress = 0
		}
		if progress > 1 {
			progress = 1
		}

		statuses = append(statuses, AlertStatus{
			Alert:         alert,
			LastServiceKm: lastServiceKm,
			NextDueKm:     nextDue,
			KmRemaining:   remaining,
			CurrentKm:     currentKm,
			Progress:      progress,
			Urgent:        remaining < UrgentKmThreshold,
		})
	}
	return statuses
}
