package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/persistence"
)

// ShiftService manages the weekly technician staffing grid. Mutations are
// restricted to admins.
type ShiftService struct {
	shifts      persistence.ShiftRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewShiftService wires dependencies for shift operations.
func NewShiftService(shifts persistence.ShiftRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ShiftService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ShiftService{
		shifts:      shifts,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateShift registers a weekly staffing record.
func (s *ShiftService) CreateShift(ctx context.Context, principal Principal, input ShiftInput) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift repository not configured")
	}
	if !principal.IsAdmin {
		return Shift{}, ErrUnauthorized
	}

	start, end, vErr := validateShiftInput(input)
	if vErr.HasErrors() {
		return Shift{}, vErr
	}

	createdAt := s.now()
	record := persistence.TechnicianShift{
		ID:         s.idGenerator(),
		Technician: strings.TrimSpace(input.Technician),
		Studio:     input.Studio,
		Weekday:    input.Weekday,
		Start:      start,
		End:        end,
		Active:     input.Active,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := s.shifts.CreateShift(ctx, record); err != nil {
		return Shift{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "shift", "create").InfoContext(ctx, "shift created",
		"shift_id", record.ID, "technician", record.Technician, "studio", record.Studio)

	return toShift(record), nil
}

// UpdateShift replaces the mutable fields of an existing staffing record.
func (s *ShiftService) UpdateShift(ctx context.Context, principal Principal, shiftID string, input ShiftInput) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift repository not configured")
	}
	if !principal.IsAdmin {
		return Shift{}, ErrUnauthorized
	}

	existing, err := s.shifts.GetShift(ctx, shiftID)
	if err != nil {
		return Shift{}, mapBookingRepoError(err)
	}

	start, end, vErr := validateShiftInput(input)
	if vErr.HasErrors() {
		return Shift{}, vErr
	}

	updated := existing
	updated.Technician = strings.TrimSpace(input.Technician)
	updated.Studio = input.Studio
	updated.Weekday = input.Weekday
	updated.Start = start
	updated.End = end
	updated.Active = input.Active
	updated.UpdatedAt = s.now()

	if err := s.shifts.UpdateShift(ctx, updated); err != nil {
		return Shift{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "shift", "update").InfoContext(ctx, "shift updated", "shift_id", shiftID)

	return toShift(updated), nil
}

// DeleteShift removes a staffing record.
func (s *ShiftService) DeleteShift(ctx context.Context, principal Principal, shiftID string) error {
	if s == nil || s.shifts == nil {
		return fmt.Errorf("shift repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.shifts.DeleteShift(ctx, shiftID); err != nil {
		return mapBookingRepoError(err)
	}
	serviceLogger(ctx, s.logger, "shift", "delete").InfoContext(ctx, "shift deleted", "shift_id", shiftID)
	return nil
}

// ListShifts enumerates staffing records, optionally narrowed by studio and
// weekday. Inactive records are included so admins can review the full grid.
func (s *ShiftService) ListShifts(ctx context.Context, studio string, weekday *time.Weekday) ([]Shift, error) {
	if s == nil || s.shifts == nil {
		return nil, fmt.Errorf("shift repository not configured")
	}
	records, err := s.shifts.ListShifts(ctx, persistence.ShiftFilter{
		Studio:  studio,
		Weekday: weekday,
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}
	results := make([]Shift, 0, len(records))
	for _, record := range records {
		results = append(results, toShift(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Weekday != results[j].Weekday {
			return results[i].Weekday < results[j].Weekday
		}
		if results[i].Start != results[j].Start {
			return results[i].Start < results[j].Start
		}
		return results[i].Technician < results[j].Technician
	})
	return results, nil
}

func validateShiftInput(input ShiftInput) (int, int, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Technician) == "" {
		vErr.add("technician", "technician is required")
	}
	if strings.TrimSpace(input.Studio) == "" {
		vErr.add("studio", "studio is required")
	} else if !validStudio(input.Studio) {
		vErr.add("studio", "unknown studio")
	}
	if input.Weekday < time.Sunday || input.Weekday > time.Saturday {
		vErr.add("weekday", "weekday must be between 0 and 6")
	}

	start, end := 0, 0
	if parsed, err := booking.ParseClock(input.Start); err != nil {
		vErr.add("start", "start must be HH:MM")
	} else {
		start = parsed
	}
	if parsed, err := booking.ParseClock(input.End); err != nil {
		vErr.add("end", "end must be HH:MM")
	} else {
		end = parsed
	}
	if !vErr.HasErrors() && end <= start {
		vErr.add("time", "start must be before end")
	}

	return start, end, vErr
}

func toShift(record persistence.TechnicianShift) Shift {
	return Shift{
		ID:         record.ID,
		Technician: record.Technician,
		Studio:     record.Studio,
		Weekday:    record.Weekday,
		Start:      record.Start,
		End:        record.End,
		Active:     record.Active,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
