package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"rota/internal/core"
)

// handleSummary aggregates a date range. The period shortcut covers the
// common dashboard views; from/to win when both are given.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if from.IsZero() && to.IsZero() {
		today := core.Today()
		switch strings.TrimSpace(r.URL.Query().Get("period")) {
		case "", "today":
			from, to = today, today
		case "week":
			from, to = core.StartOfWeek(today), core.EndOfWeek(today)
		case "month":
			from = core.NewDate(today.Year(), int(today.Month()), 1)
			to = core.Date{Time: from.AddDate(0, 1, -1)}
		default:
			writeError(w, http.StatusUnprocessableEntity, errors.New("unknown period"))
			return
		}
	}

	sum, err := s.entries.Summarize(r.Context(), from, to)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		From    string             `json:"from"`
		To      string             `json:"to"`
		Summary core.WeeklySummary `json:"summary"`
	}{From: from.String(), To: to.String(), Summary: sum})
}

func (s *Server) handleFuelMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.entries.FuelMetrics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Fuel metrics failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.entries.MaintenanceStatus(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Maintenance status failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if statuses == nil {
		statuses = []core.AlertStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.entries.WeeklyGroups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Weekly groups failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if weeks == nil {
		weeks = []core.WeekGroup{}
	}
	writeJSON(w, http.StatusOK, weeks)
}

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.entries.DailyStats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily stats failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if stats == nil {
		stats = []core.DayStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecentStores(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			writeError(w, http.StatusUnprocessableEntity, errors.New("invalid limit"))
			return
		}
		limit = n
	}

	stores, err := s.entries.RecentStores(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Recent stores failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if stores == nil {
		stores = []string{}
	}
	writeJSON(w, http.StatusOK, stores)
}
