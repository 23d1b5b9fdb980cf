package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rota/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps engine errors to HTTP status codes. Validation failures are
// 422, unknown ids 404, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKm),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidPayment),
		errors.Is(err, core.ErrInvalidTimeOfDay),
		errors.Is(err, core.ErrInvalidPercentage),
		errors.Is(err, core.ErrAmbiguousEntry),
		errors.Is(err, core.ErrEmptyID):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseDateParam parses an optional YYYY-MM-DD query parameter. The zero
// Date means the parameter was absent.
func parseDateParam(r *http.Request, name string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(v)
}

// dateOrToday parses a date string, defaulting to today when empty.
func dateOrToday(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Today(), nil
	}
	return core.ParseDate(s)
}

// timeOrNow validates an HH:MM string, defaulting to the current wall clock
// when empty.
func timeOrNow(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.CurrentTimeOfDay(), nil
	}
	if !core.ValidTimeOfDay(s) {
		return "", core.ErrInvalidTimeOfDay
	}
	return s, nil
}
