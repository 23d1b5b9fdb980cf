package http

import (
	"errors"
	"log/slog"
	"net/http"

	"rota/internal/core"
	"rota/internal/services"
)

type clockInRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Notes     string `json:"notes"`
}

type clockOutRequest struct {
	Date         string `json:"date"`
	EndTime      string `json:"endTime"`
	BreakMinutes int    `json:"breakMinutes"`
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	var req clockInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	day, err := dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	start, err := timeOrNow(req.StartTime)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	shift, err := s.shifts.ClockIn(r.Context(), day, start, sanitizeInput(req.Notes))
	if err != nil {
		slog.ErrorContext(r.Context(), "Clock in failed", "error", err)
		writeError(w, shiftStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, shift)
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	var req clockOutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	day, err := dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if req.BreakMinutes < 0 {
		writeError(w, http.StatusUnprocessableEntity, errors.New("break minutes cannot be negative"))
		return
	}
	end, err := timeOrNow(req.EndTime)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	shift, err := s.shifts.ClockOut(r.Context(), day, end, req.BreakMinutes)
	if err != nil {
		slog.ErrorContext(r.Context(), "Clock out failed", "error", err)
		writeError(w, shiftStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.shifts.ListShifts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List shifts failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if shifts == nil {
		shifts = []core.TimeEntry{}
	}
	writeJSON(w, http.StatusOK, shifts)
}

// shiftStatus maps the timesheet state errors onto conflict responses.
func shiftStatus(err error) int {
	if errors.Is(err, services.ErrShiftAlreadyOpen) || errors.Is(err, services.ErrNoOpenShift) {
		return http.StatusConflict
	}
	return statusFor(err)
}
