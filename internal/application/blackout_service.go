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

// BlackoutService manages studio unavailability windows. Mutations are
// restricted to admins.
type BlackoutService struct {
	blackouts   persistence.BlackoutRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBlackoutService wires dependencies for blackout operations.
func NewBlackoutService(blackouts persistence.BlackoutRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BlackoutService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BlackoutService{
		blackouts:   blackouts,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateBlackout registers a new unavailability window.
func (s *BlackoutService) CreateBlackout(ctx context.Context, principal Principal, input BlackoutInput) (Blackout, error) {
	if s == nil || s.blackouts == nil {
		return Blackout{}, fmt.Errorf("blackout repository not configured")
	}
	if !principal.IsAdmin {
		return Blackout{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Studio) == "" {
		vErr.add("studio", "studio is required")
	} else if !validStudio(input.Studio) {
		vErr.add("studio", "unknown studio")
	}
	if strings.TrimSpace(input.Date) == "" {
		vErr.add("date", "date is required")
	} else if _, err := time.Parse(dateLayout, input.Date); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
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
	if vErr.HasErrors() {
		return Blackout{}, vErr
	}

	record := persistence.BlackoutPeriod{
		ID:        s.idGenerator(),
		Studio:    input.Studio,
		Date:      input.Date,
		Start:     start,
		End:       end,
		Reason:    strings.TrimSpace(input.Reason),
		CreatedBy: principal.UserID,
		CreatedAt: s.now(),
	}
	if err := s.blackouts.CreateBlackout(ctx, record); err != nil {
		return Blackout{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "blackout", "create").InfoContext(ctx, "blackout created",
		"blackout_id", record.ID, "studio", record.Studio, "date", record.Date)

	return toBlackout(record), nil
}

// DeleteBlackout removes an unavailability window.
func (s *BlackoutService) DeleteBlackout(ctx context.Context, principal Principal, id string) error {
	if s == nil || s.blackouts == nil {
		return fmt.Errorf("blackout repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.blackouts.DeleteBlackout(ctx, id); err != nil {
		return mapBookingRepoError(err)
	}
	serviceLogger(ctx, s.logger, "blackout", "delete").InfoContext(ctx, "blackout deleted", "blackout_id", id)
	return nil
}

// ListBlackouts enumerates windows for a studio, or all studios when empty.
func (s *BlackoutService) ListBlackouts(ctx context.Context, studio string) ([]Blackout, error) {
	if s == nil || s.blackouts == nil {
		return nil, fmt.Errorf("blackout repository not configured")
	}
	records, err := s.blackouts.ListBlackouts(ctx, studio)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}
	results := make([]Blackout, 0, len(records))
	for _, record := range records {
		results = append(results, toBlackout(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		return results[i].Start < results[j].Start
	})
	return results, nil
}

func toBlackout(record persistence.BlackoutPeriod) Blackout {
	return Blackout{
		ID:        record.ID,
		Studio:    record.Studio,
		Date:      record.Date,
		Start:     record.Start,
		End:       record.End,
		Reason:    record.Reason,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt,
	}
}
