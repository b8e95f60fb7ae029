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
	"github.com/example/studio-booking/internal/template"
)

// TemplateService manages weekly session templates (fixed slots) and the
// batch job that materializes them into concrete bookings. Restricted to
// admins.
type TemplateService struct {
	slots       persistence.FixedSlotRepository
	bookings    persistence.BookingRepository
	blackouts   persistence.BlackoutRepository
	audit       persistence.AuditRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTemplateService wires dependencies for fixed slot operations.
func NewTemplateService(slots persistence.FixedSlotRepository, bookings persistence.BookingRepository, blackouts persistence.BlackoutRepository, audit persistence.AuditRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TemplateService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TemplateService{
		slots:       slots,
		bookings:    bookings,
		blackouts:   blackouts,
		audit:       audit,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateFixedSlot registers a weekly template.
func (s *TemplateService) CreateFixedSlot(ctx context.Context, principal Principal, input FixedSlotInput) (FixedSlot, error) {
	if s == nil || s.slots == nil {
		return FixedSlot{}, fmt.Errorf("fixed slot repository not configured")
	}
	if !principal.IsAdmin {
		return FixedSlot{}, ErrUnauthorized
	}

	start, end, vErr := validateFixedSlotInput(input)
	if vErr.HasErrors() {
		return FixedSlot{}, vErr
	}

	record := persistence.FixedSlot{
		ID:          s.idGenerator(),
		Subject:     strings.TrimSpace(input.Subject),
		Proposal:    strings.TrimSpace(input.Proposal),
		Professor:   strings.TrimSpace(input.Professor),
		Studio:      input.Studio,
		Technicians: input.Technicians,
		Weekday:     input.Weekday,
		Start:       start,
		End:         end,
		Type:        input.Type,
		CreatedAt:   s.now(),
	}
	if err := s.slots.CreateFixedSlot(ctx, record); err != nil {
		return FixedSlot{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "template", "create").InfoContext(ctx, "fixed slot created",
		"slot_id", record.ID, "studio", record.Studio, "weekday", int(record.Weekday))

	return toFixedSlot(record), nil
}

// DeleteFixedSlot removes a weekly template. Already materialized bookings
// are left untouched.
func (s *TemplateService) DeleteFixedSlot(ctx context.Context, principal Principal, slotID string) error {
	if s == nil || s.slots == nil {
		return fmt.Errorf("fixed slot repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.slots.DeleteFixedSlot(ctx, slotID); err != nil {
		return mapBookingRepoError(err)
	}
	serviceLogger(ctx, s.logger, "template", "delete").InfoContext(ctx, "fixed slot deleted", "slot_id", slotID)
	return nil
}

// ListFixedSlots enumerates templates ordered by weekday then start.
func (s *TemplateService) ListFixedSlots(ctx context.Context, principal Principal) ([]FixedSlot, error) {
	if s == nil || s.slots == nil {
		return nil, fmt.Errorf("fixed slot repository not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	records, err := s.slots.ListFixedSlots(ctx)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}
	results := make([]FixedSlot, 0, len(records))
	for _, record := range records {
		results = append(results, toFixedSlot(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Weekday != results[j].Weekday {
			return results[i].Weekday < results[j].Weekday
		}
		return results[i].Start < results[j].Start
	})
	return results, nil
}

// GenerateBookings materializes every template into concrete bookings over
// the inclusive [From, To] date range. Occurrences that would collide with
// an existing booking or blackout are skipped and reported, never inserted.
func (s *TemplateService) GenerateBookings(ctx context.Context, principal Principal, params GenerateParams) (GenerateReport, error) {
	if s == nil || s.slots == nil || s.bookings == nil {
		return GenerateReport{}, fmt.Errorf("fixed slot and booking repositories not configured")
	}
	if !principal.IsAdmin {
		return GenerateReport{}, ErrUnauthorized
	}

	logger := serviceLogger(ctx, s.logger, "template", "generate", "from", params.From, "to", params.To)

	vErr := &ValidationError{}
	from, err := time.Parse(dateLayout, params.From)
	if err != nil {
		vErr.add("from", "from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, params.To)
	if err != nil {
		vErr.add("to", "to must be YYYY-MM-DD")
	}
	if vErr.HasErrors() {
		return GenerateReport{}, vErr
	}

	slots, err := s.slots.ListFixedSlots(ctx)
	if err != nil && !isNotFoundError(err) {
		return GenerateReport{}, mapBookingRepoError(err)
	}

	var report GenerateReport
	for _, slot := range slots {
		dates, err := template.Expand(slot.Weekday, from, to)
		if err != nil {
			vErr := &ValidationError{}
			vErr.add("range", "from must not be after to")
			return GenerateReport{}, vErr
		}
		for _, day := range dates {
			date := day.Format(dateLayout)
			conflicted, err := s.occurrenceConflicts(ctx, slot, date)
			if err != nil {
				return GenerateReport{}, err
			}
			if conflicted {
				report.Skipped = append(report.Skipped, SkippedOccurrence{
					SlotID: slot.ID,
					Date:   date,
					Studio: slot.Studio,
					Start:  slot.Start,
					End:    slot.End,
				})
				continue
			}

			createdAt := s.now()
			record := persistence.Booking{
				ID:          s.idGenerator(),
				Date:        date,
				Start:       slot.Start,
				End:         slot.End,
				Studio:      slot.Studio,
				Subject:     slot.Subject,
				Proposal:    slot.Proposal,
				Professor:   slot.Professor,
				Technicians: slot.Technicians,
				Type:        slot.Type,
				OwnerID:     principal.UserID,
				OwnerEmail:  principal.Email,
				CreatedAt:   createdAt,
				UpdatedAt:   createdAt,
			}
			if err := s.bookings.CreateBooking(ctx, record); err != nil {
				return GenerateReport{}, mapBookingRepoError(err)
			}
			s.recordGeneration(ctx, logger, principal, record)
			report.Created = append(report.Created, toBooking(record))
		}
	}

	logger.InfoContext(ctx, "fixed slots materialized",
		"created", len(report.Created), "skipped", len(report.Skipped))

	return report, nil
}

func (s *TemplateService) occurrenceConflicts(ctx context.Context, slot persistence.FixedSlot, date string) (bool, error) {
	candidate := booking.Candidate{
		Studio: slot.Studio,
		Date:   date,
		Start:  slot.Start,
		End:    slot.End,
	}

	var existing []booking.Window
	records, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{Date: date, Studio: slot.Studio})
	if err != nil && !isNotFoundError(err) {
		return false, mapBookingRepoError(err)
	}
	for _, record := range records {
		existing = append(existing, booking.Window{
			ID:     record.ID,
			Studio: record.Studio,
			Date:   record.Date,
			Start:  record.Start,
			End:    record.End,
		})
	}

	var blackouts []booking.Blackout
	if s.blackouts != nil {
		periods, err := s.blackouts.ListBlackouts(ctx, slot.Studio)
		if err != nil && !isNotFoundError(err) {
			return false, mapBookingRepoError(err)
		}
		for _, period := range periods {
			blackouts = append(blackouts, booking.Blackout{
				Studio: period.Studio,
				Date:   period.Date,
				Start:  period.Start,
				End:    period.End,
			})
		}
	}

	if err := booking.CheckConflicts(candidate, existing, blackouts, ""); err != nil {
		return true, nil
	}
	return false, nil
}

func (s *TemplateService) recordGeneration(ctx context.Context, logger *slog.Logger, principal Principal, record persistence.Booking) {
	if s.audit == nil {
		return
	}
	entry := persistence.AuditEntry{
		ID:         s.idGenerator(),
		BookingID:  record.ID,
		Action:     auditCreate,
		ActorID:    principal.UserID,
		ActorEmail: principal.Email,
		After:      marshalSnapshot(&record),
		CreatedAt:  s.now(),
	}
	if err := s.audit.AppendAudit(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "audit append failed", "error", err, "booking_id", record.ID)
	}
}

func validateFixedSlotInput(input FixedSlotInput) (int, int, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if strings.TrimSpace(input.Proposal) == "" {
		vErr.add("proposal", "proposal is required")
	}
	if strings.TrimSpace(input.Professor) == "" {
		vErr.add("professor", "professor is required")
	}
	if strings.TrimSpace(input.Studio) == "" {
		vErr.add("studio", "studio is required")
	} else if !validStudio(input.Studio) {
		vErr.add("studio", "unknown studio")
	}
	if input.Weekday < time.Sunday || input.Weekday > time.Saturday {
		vErr.add("weekday", "weekday must be between 0 and 6")
	}
	if strings.TrimSpace(input.Type) == "" {
		vErr.add("type", "type is required")
	} else if input.Type != TypeRecording && input.Type != TypeBroadcast {
		vErr.add("type", "unknown session type")
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

func toFixedSlot(record persistence.FixedSlot) FixedSlot {
	technicians := make([]string, len(record.Technicians))
	copy(technicians, record.Technicians)
	return FixedSlot{
		ID:          record.ID,
		Subject:     record.Subject,
		Proposal:    record.Proposal,
		Professor:   record.Professor,
		Studio:      record.Studio,
		Technicians: technicians,
		Weekday:     record.Weekday,
		Start:       record.Start,
		End:         record.End,
		Type:        record.Type,
		CreatedAt:   record.CreatedAt,
	}
}
