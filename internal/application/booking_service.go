package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/persistence"
)

const dateLayout = "2006-01-02"

// BookingRepositories groups the persistence collections a BookingService
// consults. Bookings, rules and shifts are mandatory; the rest degrade
// gracefully when nil.
type BookingRepositories struct {
	Bookings    persistence.BookingRepository
	Blackouts   persistence.BlackoutRepository
	Rules       persistence.DurationRuleRepository
	Shifts      persistence.ShiftRepository
	Permissions persistence.PermissionRepository
	Audit       persistence.AuditRepository
}

// BookingService orchestrates validation, duration resolution, coverage,
// conflict detection and the mutation policy for studio sessions.
type BookingService struct {
	repos       BookingRepositories
	idGenerator func() string
	now         func() time.Time
	grace       time.Duration
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations. grace is the
// window after creation during which owners may mutate their own bookings
// without an explicit grant.
func NewBookingService(repos BookingRepositories, idGenerator func() string, now func() time.Time, grace time.Duration, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		repos:       repos,
		idGenerator: idGenerator,
		now:         now,
		grace:       grace,
		logger:      defaultLogger(logger),
	}
}

// CreateBooking validates the request, derives the end time and technician
// assignment, rejects conflicting intervals and persists the booking.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, Availability, error) {
	if s == nil {
		return Booking{}, Availability{}, fmt.Errorf("BookingService is nil")
	}
	if s.repos.Bookings == nil {
		return Booking{}, Availability{}, fmt.Errorf("booking repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "booking", "create")
	input := params.Input
	principal := params.Principal

	start, vErr := validateBookingInput(input)
	if vErr.HasErrors() {
		return Booking{}, Availability{}, vErr
	}

	availability, err := s.evaluate(ctx, evaluation{
		Studio:   input.Studio,
		Date:     input.Date,
		Subject:  input.Subject,
		Proposal: input.Proposal,
		Start:    start,
	})
	if err != nil {
		logger.InfoContext(ctx, "booking rejected", "error_kind", ErrorKind(err))
		return Booking{}, Availability{}, err
	}

	createdAt := s.now()
	record := persistence.Booking{
		ID:          s.idGenerator(),
		Date:        input.Date,
		Start:       availability.Start,
		End:         availability.End,
		Studio:      input.Studio,
		Subject:     strings.TrimSpace(input.Subject),
		Proposal:    strings.TrimSpace(input.Proposal),
		Professor:   strings.TrimSpace(input.Professor),
		Technicians: availability.Technicians,
		Type:        input.Type,
		OwnerID:     principal.UserID,
		OwnerEmail:  principal.Email,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if err := s.repos.Bookings.CreateBooking(ctx, record); err != nil {
		return Booking{}, Availability{}, mapBookingRepoError(err)
	}

	s.appendAudit(ctx, logger, auditCreate, record.ID, principal, nil, &record)
	logger.InfoContext(ctx, "booking created", "booking_id", record.ID, "studio", record.Studio, "date", record.Date)

	return toBooking(record), availability, nil
}

// UpdateBooking re-runs the full evaluation for the new interval after
// checking the mutation policy. The owner and creation time are preserved.
func (s *BookingService) UpdateBooking(ctx context.Context, params UpdateBookingParams) (Booking, Availability, error) {
	if s == nil {
		return Booking{}, Availability{}, fmt.Errorf("BookingService is nil")
	}
	if s.repos.Bookings == nil {
		return Booking{}, Availability{}, fmt.Errorf("booking repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "booking", "update", "booking_id", params.BookingID)

	existing, err := s.repos.Bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		return Booking{}, Availability{}, mapBookingRepoError(err)
	}

	if err := s.authorizeMutation(ctx, params.Principal, existing, booking.ActionEdit); err != nil {
		logger.InfoContext(ctx, "booking update denied", "error_kind", ErrorKind(err))
		return Booking{}, Availability{}, err
	}

	input := params.Input
	start, vErr := validateBookingInput(input)
	if vErr.HasErrors() {
		return Booking{}, Availability{}, vErr
	}

	availability, err := s.evaluate(ctx, evaluation{
		Studio:    input.Studio,
		Date:      input.Date,
		Subject:   input.Subject,
		Proposal:  input.Proposal,
		Start:     start,
		ExcludeID: existing.ID,
	})
	if err != nil {
		logger.InfoContext(ctx, "booking update rejected", "error_kind", ErrorKind(err))
		return Booking{}, Availability{}, err
	}

	updated := existing
	updated.Date = input.Date
	updated.Start = availability.Start
	updated.End = availability.End
	updated.Studio = input.Studio
	updated.Subject = strings.TrimSpace(input.Subject)
	updated.Proposal = strings.TrimSpace(input.Proposal)
	updated.Professor = strings.TrimSpace(input.Professor)
	updated.Technicians = availability.Technicians
	updated.Type = input.Type
	updated.UpdatedAt = s.now()

	if err := s.repos.Bookings.UpdateBooking(ctx, updated); err != nil {
		return Booking{}, Availability{}, mapBookingRepoError(err)
	}

	s.appendAudit(ctx, logger, auditUpdate, updated.ID, params.Principal, &existing, &updated)
	logger.InfoContext(ctx, "booking updated", "studio", updated.Studio, "date", updated.Date)

	return toBooking(updated), availability, nil
}

// CancelBooking removes a booking after checking the mutation policy.
func (s *BookingService) CancelBooking(ctx context.Context, principal Principal, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if s.repos.Bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "booking", "cancel", "booking_id", bookingID)

	existing, err := s.repos.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return mapBookingRepoError(err)
	}

	if err := s.authorizeMutation(ctx, principal, existing, booking.ActionCancel); err != nil {
		logger.InfoContext(ctx, "booking cancel denied", "error_kind", ErrorKind(err))
		return err
	}

	if err := s.repos.Bookings.DeleteBooking(ctx, bookingID); err != nil {
		return mapBookingRepoError(err)
	}

	s.appendAudit(ctx, logger, auditDelete, bookingID, principal, &existing, nil)
	logger.InfoContext(ctx, "booking cancelled")

	return nil
}

// GetBooking fetches a single booking by id.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (Booking, error) {
	if s == nil || s.repos.Bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}
	record, err := s.repos.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, mapBookingRepoError(err)
	}
	return toBooking(record), nil
}

// ListBookings enumerates bookings ordered by date, start and id.
func (s *BookingService) ListBookings(ctx context.Context, params ListBookingsParams) ([]Booking, error) {
	if s == nil || s.repos.Bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	records, err := s.repos.Bookings.ListBookings(ctx, persistence.BookingFilter{
		Date:   params.Date,
		Studio: params.Studio,
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}

	results := make([]Booking, 0, len(records))
	for _, record := range records {
		results = append(results, toBooking(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		if results[i].Start != results[j].Start {
			return results[i].Start < results[j].Start
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

// ListHistory returns the audit trail of a booking. Restricted to admins.
func (s *BookingService) ListHistory(ctx context.Context, principal Principal, bookingID string) ([]AuditRecord, error) {
	if s == nil || s.repos.Audit == nil {
		return nil, fmt.Errorf("audit repository not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	entries, err := s.repos.Audit.ListAuditForBooking(ctx, bookingID)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}

	records := make([]AuditRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, AuditRecord{
			ID:         entry.ID,
			BookingID:  entry.BookingID,
			Action:     entry.Action,
			ActorID:    entry.ActorID,
			ActorEmail: entry.ActorEmail,
			Before:     entry.Before,
			After:      entry.After,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return records, nil
}

// evaluation identifies a draft interval to run the full availability
// pipeline against.
type evaluation struct {
	Studio    string
	Date      string
	Subject   string
	Proposal  string
	Start     int
	ExcludeID string
}

// evaluate runs duration resolution, coverage and conflict detection for a
// draft interval. Conflicts are always checked against a fresh read of the
// collision domain.
func (s *BookingService) evaluate(ctx context.Context, req evaluation) (Availability, error) {
	if s.repos.Rules == nil || s.repos.Shifts == nil {
		return Availability{}, fmt.Errorf("rule and shift repositories not configured")
	}

	ruleRecords, err := s.repos.Rules.ListDurationRules(ctx)
	if err != nil && !isNotFoundError(err) {
		return Availability{}, mapBookingRepoError(err)
	}
	rules := make([]booking.DurationRule, 0, len(ruleRecords))
	for _, record := range ruleRecords {
		rules = append(rules, booking.DurationRule{
			Subject:  record.Subject,
			Proposal: record.Proposal,
			Duration: record.Duration,
		})
	}

	end, ok := booking.ResolveEnd(req.Subject, req.Proposal, req.Start, rules)
	if !ok {
		return Availability{}, ErrNoDurationRule
	}
	if end <= req.Start {
		vErr := &ValidationError{}
		vErr.add("duration", "resolved duration must be positive")
		return Availability{}, vErr
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date must be YYYY-MM-DD")
		return Availability{}, vErr
	}
	weekday := day.Weekday()

	shiftRecords, err := s.repos.Shifts.ListShifts(ctx, persistence.ShiftFilter{
		Studio:     req.Studio,
		Weekday:    &weekday,
		ActiveOnly: true,
	})
	if err != nil && !isNotFoundError(err) {
		return Availability{}, mapBookingRepoError(err)
	}
	shifts := make([]booking.Shift, 0, len(shiftRecords))
	for _, record := range shiftRecords {
		shifts = append(shifts, booking.Shift{
			Technician: record.Technician,
			Start:      record.Start,
			End:        record.End,
		})
	}

	coverage, err := booking.ComputeCoverage(shifts, req.Start, end)
	if err != nil {
		return Availability{}, err
	}

	if err := s.checkConflicts(ctx, req, end); err != nil {
		return Availability{}, err
	}

	segments := make([]CoverageSegment, 0, len(coverage.Segments))
	for _, segment := range coverage.Segments {
		segments = append(segments, CoverageSegment{
			Start:       segment.Start,
			End:         segment.End,
			Technicians: segment.Technicians,
		})
	}

	return Availability{
		Start:       req.Start,
		End:         end,
		Segments:    segments,
		Technicians: coverage.Technicians,
		Relay:       coverage.Relay,
	}, nil
}

func (s *BookingService) checkConflicts(ctx context.Context, req evaluation, end int) error {
	candidate := booking.Candidate{
		Studio: req.Studio,
		Date:   req.Date,
		Start:  req.Start,
		End:    end,
	}

	var existing []booking.Window
	records, err := s.repos.Bookings.ListBookings(ctx, persistence.BookingFilter{
		Date:   req.Date,
		Studio: req.Studio,
	})
	if err != nil && !isNotFoundError(err) {
		return mapBookingRepoError(err)
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
	if s.repos.Blackouts != nil {
		periods, err := s.repos.Blackouts.ListBlackouts(ctx, req.Studio)
		if err != nil && !isNotFoundError(err) {
			return mapBookingRepoError(err)
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

	return booking.CheckConflicts(candidate, existing, blackouts, req.ExcludeID)
}

// authorizeMutation resolves the actor's grants and runs the mutation
// policy for the given action on an existing booking.
func (s *BookingService) authorizeMutation(ctx context.Context, principal Principal, existing persistence.Booking, action booking.Action) error {
	actor := booking.Actor{
		UserID:  principal.UserID,
		IsAdmin: principal.IsAdmin,
	}
	if !principal.IsAdmin && s.repos.Permissions != nil {
		grant, err := s.repos.Permissions.GetPermission(ctx, principal.UserID)
		switch {
		case err == nil:
			actor.CanEdit = grant.CanEdit
			actor.CanCancel = grant.CanCancel
		case isNotFoundError(err):
			// no explicit grants
		default:
			return mapBookingRepoError(err)
		}
	}

	decision := booking.EvaluateMutation(actor, existing.OwnerID, existing.CreatedAt, s.now(), s.grace, action)
	if decision.Allowed {
		return nil
	}
	switch decision.Reason {
	case booking.DenyReasonGraceExpired:
		return ErrEditWindowExpired
	default:
		return ErrNotPermitted
	}
}

const (
	auditCreate = "create"
	auditUpdate = "update"
	auditDelete = "delete"
)

// bookingSnapshot is the JSON shape stored in the audit log.
type bookingSnapshot struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Studio      string   `json:"studio"`
	Subject     string   `json:"subject"`
	Proposal    string   `json:"proposal"`
	Professor   string   `json:"professor"`
	Technicians []string `json:"technicians"`
	Type        string   `json:"type"`
	OwnerID     string   `json:"owner_id"`
	OwnerEmail  string   `json:"owner_email"`
}

// appendAudit records a mutation in the change log. Audit failures are
// logged and swallowed so they never fail the primary operation.
func (s *BookingService) appendAudit(ctx context.Context, logger *slog.Logger, action, bookingID string, principal Principal, before, after *persistence.Booking) {
	if s.repos.Audit == nil {
		return
	}
	entry := persistence.AuditEntry{
		ID:         s.idGenerator(),
		BookingID:  bookingID,
		Action:     action,
		ActorID:    principal.UserID,
		ActorEmail: principal.Email,
		Before:     marshalSnapshot(before),
		After:      marshalSnapshot(after),
		CreatedAt:  s.now(),
	}
	if err := s.repos.Audit.AppendAudit(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "audit append failed", "error", err, "action", action)
	}
}

func marshalSnapshot(record *persistence.Booking) []byte {
	if record == nil {
		return nil
	}
	data, err := json.Marshal(bookingSnapshot{
		ID:          record.ID,
		Date:        record.Date,
		Start:       record.Start,
		End:         record.End,
		Studio:      record.Studio,
		Subject:     record.Subject,
		Proposal:    record.Proposal,
		Professor:   record.Professor,
		Technicians: record.Technicians,
		Type:        record.Type,
		OwnerID:     record.OwnerID,
		OwnerEmail:  record.OwnerEmail,
	})
	if err != nil {
		return nil
	}
	return data
}

// validateBookingInput checks required fields and parses the start clock.
func validateBookingInput(input BookingInput) (int, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Date) == "" {
		vErr.add("date", "date is required")
	} else if _, err := time.Parse(dateLayout, input.Date); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
	}

	if strings.TrimSpace(input.Studio) == "" {
		vErr.add("studio", "studio is required")
	} else if !validStudio(input.Studio) {
		vErr.add("studio", "unknown studio")
	}

	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if strings.TrimSpace(input.Proposal) == "" {
		vErr.add("proposal", "proposal is required")
	}
	if strings.TrimSpace(input.Professor) == "" {
		vErr.add("professor", "professor is required")
	}

	if strings.TrimSpace(input.Type) == "" {
		vErr.add("type", "type is required")
	} else if input.Type != TypeRecording && input.Type != TypeBroadcast {
		vErr.add("type", "unknown session type")
	}

	start := 0
	if strings.TrimSpace(input.Start) == "" {
		vErr.add("start", "start is required")
	} else {
		parsed, err := booking.ParseClock(input.Start)
		if err != nil {
			vErr.add("start", "start must be HH:MM")
		} else {
			start = parsed
		}
	}

	return start, vErr
}

func validStudio(studio string) bool {
	for _, known := range Studios {
		if known == studio {
			return true
		}
	}
	return false
}

func toBooking(record persistence.Booking) Booking {
	technicians := make([]string, len(record.Technicians))
	copy(technicians, record.Technicians)
	return Booking{
		ID:          record.ID,
		Date:        record.Date,
		Start:       record.Start,
		End:         record.End,
		Studio:      record.Studio,
		Subject:     record.Subject,
		Proposal:    record.Proposal,
		Professor:   record.Professor,
		Technicians: technicians,
		Type:        record.Type,
		OwnerID:     record.OwnerID,
		OwnerEmail:  record.OwnerEmail,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
