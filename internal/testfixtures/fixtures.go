// Package testfixtures provides deterministic builders and a SQLite harness
// shared by persistence and service tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

var (
	userCounter    uint64
	bookingCounter uint64
	shiftCounter   uint64
	ruleCounter    uint64
)

// referenceTime falls on a Tuesday so weekday-driven fixtures line up with
// the default shift grid.
var referenceTime = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the calendar date of ReferenceTime.
func ReferenceDate() string {
	return referenceTime.Format("2006-01-02")
}

// UserOption configures a generated user record.
type UserOption func(*persistence.User)

// NewUser returns a deterministic account record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@escola.br", id),
		DisplayName:  fmt.Sprintf("Usuário %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) { u.ID = id }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithUserAdmin marks the account as an administrator.
func WithUserAdmin() UserOption {
	return func(u *persistence.User) { u.IsAdmin = true }
}

// WithUserDisabled marks the account as disabled.
func WithUserDisabled() UserOption {
	return func(u *persistence.User) { u.Disabled = true }
}

// WithUserPasswordHash overrides the stored credential hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(u *persistence.User) { u.PasswordHash = hash }
}

// BookingOption configures a generated booking record.
type BookingOption func(*persistence.Booking)

// NewBooking returns a deterministic one-hour booking on the reference date
// with optional overrides. Consecutive bookings do not overlap.
func NewBooking(opts ...BookingOption) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	start := 480 + int(idx%8)*60
	record := persistence.Booking{
		ID:          fmt.Sprintf("booking-%03d", idx),
		Date:        ReferenceDate(),
		Start:       start,
		End:         start + 60,
		Studio:      "Estudio 170",
		Subject:     "Matemática",
		Proposal:    "Gravação",
		Professor:   fmt.Sprintf("Prof. %03d", idx),
		Technicians: []string{"Ana"},
		Type:        "Gravação",
		OwnerID:     "user-001",
		OwnerEmail:  "user-001@escola.br",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *persistence.Booking) { b.ID = id }
}

// WithBookingDate places the booking on another calendar date.
func WithBookingDate(date string) BookingOption {
	return func(b *persistence.Booking) { b.Date = date }
}

// WithBookingStudio places the booking in another studio.
func WithBookingStudio(studio string) BookingOption {
	return func(b *persistence.Booking) { b.Studio = studio }
}

// WithBookingInterval sets the start and end minutes.
func WithBookingInterval(start, end int) BookingOption {
	return func(b *persistence.Booking) {
		b.Start = start
		b.End = end
	}
}

// WithBookingOwner sets the owning account.
func WithBookingOwner(ownerID, ownerEmail string) BookingOption {
	return func(b *persistence.Booking) {
		b.OwnerID = ownerID
		b.OwnerEmail = ownerEmail
	}
}

// WithBookingTechnicians overrides the assigned technicians.
func WithBookingTechnicians(technicians ...string) BookingOption {
	return func(b *persistence.Booking) { b.Technicians = technicians }
}

// ShiftOption configures a generated technician shift.
type ShiftOption func(*persistence.TechnicianShift)

// NewShift returns an active Tuesday morning shift with optional overrides.
func NewShift(opts ...ShiftOption) persistence.TechnicianShift {
	idx := atomic.AddUint64(&shiftCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	shift := persistence.TechnicianShift{
		ID:         fmt.Sprintf("shift-%03d", idx),
		Technician: fmt.Sprintf("Técnico %03d", idx),
		Studio:     "Estudio 170",
		Weekday:    time.Tuesday,
		Start:      480,
		End:        720,
		Active:     true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&shift)
	}
	return shift
}

// WithShiftTechnician overrides the technician name.
func WithShiftTechnician(name string) ShiftOption {
	return func(s *persistence.TechnicianShift) { s.Technician = name }
}

// WithShiftStudio places the shift in another studio.
func WithShiftStudio(studio string) ShiftOption {
	return func(s *persistence.TechnicianShift) { s.Studio = studio }
}

// WithShiftWeekday places the shift on another weekday.
func WithShiftWeekday(weekday time.Weekday) ShiftOption {
	return func(s *persistence.TechnicianShift) { s.Weekday = weekday }
}

// WithShiftInterval sets the staffed range.
func WithShiftInterval(start, end int) ShiftOption {
	return func(s *persistence.TechnicianShift) {
		s.Start = start
		s.End = end
	}
}

// WithShiftInactive deactivates the shift.
func WithShiftInactive() ShiftOption {
	return func(s *persistence.TechnicianShift) { s.Active = false }
}

// RuleOption configures a generated duration rule.
type RuleOption func(*persistence.DurationRule)

// NewDurationRule returns a one-hour rule for a unique subject with optional
// overrides.
func NewDurationRule(opts ...RuleOption) persistence.DurationRule {
	idx := atomic.AddUint64(&ruleCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	rule := persistence.DurationRule{
		ID:        fmt.Sprintf("rule-%03d", idx),
		Subject:   fmt.Sprintf("Disciplina %03d", idx),
		Proposal:  "Gravação",
		Duration:  "1:00",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&rule)
	}
	return rule
}

// WithRuleKey sets the subject and proposal pair.
func WithRuleKey(subject, proposal string) RuleOption {
	return func(r *persistence.DurationRule) {
		r.Subject = subject
		r.Proposal = proposal
	}
}

// WithRuleDuration sets the "H:MM" duration value.
func WithRuleDuration(duration string) RuleOption {
	return func(r *persistence.DurationRule) { r.Duration = duration }
}
