package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rota/internal/core"
	"rota/internal/services"
)

type incomeRequest struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	StoreName     string `json:"storeName"`
	GrossAmount   string `json:"grossAmount"`
	PaymentMethod string `json:"paymentMethod"`
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	tod, err := timeOrNow(req.Time)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	gross, err := core.ParseAmount(req.GrossAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	entry, err := s.entries.CreateIncome(r.Context(), services.IncomeInput{
		Date:      date,
		Time:      tod,
		StoreName: sanitizeInput(req.StoreName),
		Gross:     gross,
		Payment:   core.PaymentMethod(strings.TrimSpace(req.PaymentMethod)),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Create income failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type expenseRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	Category        string `json:"category"`
	KmAtMaintenance string `json:"kmAtMaintenance"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	tod, err := timeOrNow(req.Time)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var km float64
	if strings.TrimSpace(req.KmAtMaintenance) != "" {
		if km, err = core.ParseKm(req.KmAtMaintenance); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}

	entry, err := s.entries.CreateExpense(r.Context(), services.ExpenseInput{
		Date:            date,
		Time:            tod,
		Description:     sanitizeInput(req.Description),
		Amount:          amount,
		Category:        core.Category(strings.TrimSpace(req.Category)),
		KmAtMaintenance: km,
		Payment:         core.PaymentMethod(strings.TrimSpace(req.PaymentMethod)),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type odometerRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	KmDriven  string `json:"kmDriven"`
	FuelPrice string `json:"fuelPrice"`
}

func (s *Server) handleCreateOdometer(w http.ResponseWriter, r *http.Request) {
	var req odometerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	tod, err := timeOrNow(req.Time)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	km, err := core.ParseKm(req.KmDriven)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	in := services.OdometerInput{Date: date, Time: tod, KmDriven: km}
	if strings.TrimSpace(req.FuelPrice) != "" {
		if in.FuelPrice, err = core.ParseAmount(req.FuelPrice); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
	}

	entry, err := s.entries.CreateOdometer(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create odometer entry failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
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

	filter := core.EntryFilter{
		From:     from,
		To:       to,
		Category: core.Category(strings.TrimSpace(r.URL.Query().Get("category"))),
		Payment:  core.PaymentMethod(strings.TrimSpace(r.URL.Query().Get("payment"))),
	}

	entries, err := s.entries.ListEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List entries failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.Entry
	if !decodeBody(w, r, &entry) {
		return
	}
	entry.ID = r.PathValue("id")

	if err := s.entries.UpdateEntry(r.Context(), entry); err != nil {
		slog.ErrorContext(r.Context(), "Update entry failed", "id", entry.ID, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type paidRequest struct {
	IsPaid bool `json:"isPaid"`
}

func (s *Server) handleSetPaid(w http.ResponseWriter, r *http.Request) {
	var req paidRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := r.PathValue("id")

	if err := s.entries.SetPaid(r.Context(), id, req.IsPaid); err != nil {
		slog.ErrorContext(r.Context(), "Set paid failed", "id", id, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "isPaid": req.IsPaid})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing entry id"))
		return
	}

	if err := s.entries.DeleteEntry(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete entry failed", "id", id, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
