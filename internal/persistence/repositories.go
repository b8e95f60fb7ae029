package persistence

import (
	"context"
	"time"
)

// BookingFilter narrows booking queries. Date and Studio select the
// collision domain; both empty lists everything.
type BookingFilter struct {
	Date   string
	Studio string
}

// BookingRepository stores studio session records.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	UpdateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// BlackoutRepository stores studio blackout windows.
type BlackoutRepository interface {
	CreateBlackout(ctx context.Context, blackout BlackoutPeriod) error
	DeleteBlackout(ctx context.Context, id string) error
	ListBlackouts(ctx context.Context, studio string) ([]BlackoutPeriod, error)
}

// DurationRuleRepository stores (subject, proposal) duration rules.
type DurationRuleRepository interface {
	CreateDurationRule(ctx context.Context, rule DurationRule) error
	UpdateDurationRule(ctx context.Context, rule DurationRule) error
	DeleteDurationRule(ctx context.Context, id string) error
	ListDurationRules(ctx context.Context) ([]DurationRule, error)
}

// ShiftFilter narrows technician shift queries.
type ShiftFilter struct {
	Studio     string
	Weekday    *time.Weekday
	ActiveOnly bool
}

// ShiftRepository stores weekly technician staffing records.
type ShiftRepository interface {
	CreateShift(ctx context.Context, shift TechnicianShift) error
	UpdateShift(ctx context.Context, shift TechnicianShift) error
	GetShift(ctx context.Context, id string) (TechnicianShift, error)
	ListShifts(ctx context.Context, filter ShiftFilter) ([]TechnicianShift, error)
	DeleteShift(ctx context.Context, id string) error
}

// PermissionRepository stores explicit edit/cancel grants.
type PermissionRepository interface {
	UpsertPermission(ctx context.Context, permission UserPermission) error
	GetPermission(ctx context.Context, userID string) (UserPermission, error)
	ListPermissions(ctx context.Context) ([]UserPermission, error)
	DeletePermission(ctx context.Context, userID string) error
}

// UserRepository stores account records.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AuditRepository appends and reads the booking change log.
type AuditRepository interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAuditForBooking(ctx context.Context, bookingID string) ([]AuditEntry, error)
}

// FixedSlotRepository stores weekly session templates.
type FixedSlotRepository interface {
	CreateFixedSlot(ctx context.Context, slot FixedSlot) error
	DeleteFixedSlot(ctx context.Context, id string) error
	ListFixedSlots(ctx context.Context) ([]FixedSlot, error)
}
