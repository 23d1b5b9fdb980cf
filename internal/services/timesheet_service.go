package services

import (
	"context"
	"errors"
	"fmt"

	"rota/internal/core"
	"rota/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrShiftAlreadyOpen = errors.New("a shift is already open for this day")
	ErrNoOpenShift      = errors.New("no open shift for this day")
)

// TimesheetService tracks work shifts.
type TimesheetService struct {
	storage *storage.SQLiteRepository
}

func NewTimesheetService(storage *storage.SQLiteRepository) *TimesheetService {
	return &TimesheetService{storage: storage}
}

// ClockIn opens a shift for the given day. Only one shift can be open per
// day.
func (s *TimesheetService) ClockIn(ctx context.Context, day core.Date, startTime, notes string) (core.TimeEntry, error) {
	if !core.ValidTimeOfDay(startTime) {
		return core.TimeEntry{}, fmt.Errorf("clock in: %w", core.ErrInvalidTimeOfDay)
	}

	entries, err := s.storage.ListTimeEntries(ctx)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("list shifts: %w", err)
	}
	if core.ActiveShift(entries, day) != nil {
		return core.TimeEntry{}, ErrShiftAlreadyOpen
	}

	shift := core.TimeEntry{
		ID:        uuid.NewString(),
		Date:      day,
		StartTime: startTime,
		Notes:     notes,
	}
	if err := s.storage.SaveTimeEntry(ctx, shift); err != nil {
		return core.TimeEntry{}, fmt.Errorf("save shift: %w", err)
	}
	return shift, nil
}

// ClockOut closes the open shift of the given day.
func (s *TimesheetService) ClockOut(ctx context.Context, day core.Date, endTime string, breakMinutes int) (core.TimeEntry, error) {
	if !core.ValidTimeOfDay(endTime) {
		return core.TimeEntry{}, fmt.Errorf("clock out: %w", core.ErrInvalidTimeOfDay)
	}
	if breakMinutes < 0 {
		return core.TimeEntry{}, fmt.Errorf("clock out: negative break")
	}

	entries, err := s.storage.ListTimeEntries(ctx)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("list shifts: %w", err)
	}
	shift := core.ActiveShift(entries, day)
	if shift == nil {
		return core.TimeEntry{}, ErrNoOpenShift
	}

	shift.EndTime = endTime
	shift.BreakMinutes = breakMinutes
	if err := s.storage.SaveTimeEntry(ctx, *shift); err != nil {
		return core.TimeEntry{}, fmt.Errorf("save shift: %w", err)
	}
	return *shift, nil
}

// ListShifts returns all shifts, most recent first.
func (s *TimesheetService) ListShifts(ctx context.Context) ([]core.TimeEntry, error) {
	return s.storage.ListTimeEntries(ctx)
}
