package persistence

import "time"

// Booking represents a persisted studio session (agendamento).
// Start and End are minutes since midnight on Date; the interval is
// half-open and must satisfy Start < End.
type Booking struct {
	ID          string
	Date        string // "YYYY-MM-DD", local wall-clock calendar date
	Start       int
	End         int
	Studio      string
	Subject     string
	Proposal    string
	Professor   string
	Technicians []string
	Type        string
	OwnerID     string
	OwnerEmail  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BlackoutPeriod represents a studio-wide unavailability window.
type BlackoutPeriod struct {
	ID        string
	Studio    string
	Date      string
	Start     int
	End       int
	Reason    string
	CreatedBy string
	CreatedAt time.Time
}

// DurationRule maps a (subject, proposal) pair to a session duration
// expressed as "H:MM".
type DurationRule struct {
	ID        string
	Subject   string
	Proposal  string
	Duration  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TechnicianShift represents one technician's weekly staffed range in a
// studio.
type TechnicianShift struct {
	ID         string
	Technician string
	Studio     string
	Weekday    time.Weekday
	Start      int
	End        int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserPermission carries the explicit edit/cancel grants a manager assigned
// to a user.
type UserPermission struct {
	UserID      string
	DisplayName string
	CanEdit     bool
	CanCancel   bool
	UpdatedAt   time.Time
}

// User represents an account able to authenticate and own bookings.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	IsAdmin      bool
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// AuditEntry pairs the before and after snapshots of a booking mutation.
// Before is nil for inserts; After is nil for deletions.
type AuditEntry struct {
	ID         string
	BookingID  string
	Action     string
	ActorID    string
	ActorEmail string
	Before     []byte
	After      []byte
	CreatedAt  time.Time
}

// FixedSlot is a weekly recurring session template materialized in batch.
type FixedSlot struct {
	ID          string
	Subject     string
	Proposal    string
	Professor   string
	Studio      string
	Technicians []string
	Weekday     time.Weekday
	Start       int
	End         int
	Type        string
	CreatedAt   time.Time
}
