package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// Studios is the fixed set of bookable rooms.
var Studios = []string{"Estudio 170", "Estudio 120", "Remoto"}

// Session types accepted on bookings.
const (
	TypeRecording = "Gravação"
	TypeBroadcast = "Transmissão"
)

// BookingInput captures caller provided booking fields. Start is a wall
// clock "HH:MM" string; the end time is always derived from duration rules
// and never supplied by the caller.
type BookingInput struct {
	Date      string
	Studio    string
	Subject   string
	Proposal  string
	Professor string
	Type      string
	Start     string
}

// Booking represents a persisted studio session exposed by the services.
type Booking struct {
	ID          string
	Date        string
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

// CoverageSegment mirrors one merged staffing block of a booking interval.
type CoverageSegment struct {
	Start       int
	End         int
	Technicians []string
}

// Availability is the outcome of evaluating a draft booking: the derived
// end time, the staffing segments, and the consolidated technician
// assignment. Relay is true when staffing requires a handoff between
// technicians.
type Availability struct {
	Start       int
	End         int
	Segments    []CoverageSegment
	Technicians []string
	Relay       bool
}

// AvailabilityQuery identifies the draft interval to evaluate.
type AvailabilityQuery struct {
	Studio           string
	Date             string
	Subject          string
	Proposal         string
	Start            string
	ExcludeBookingID string
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// UpdateBookingParams wraps the data required to update a booking.
type UpdateBookingParams struct {
	Principal Principal
	BookingID string
	Input     BookingInput
}

// ListBookingsParams narrows booking listings.
type ListBookingsParams struct {
	Date   string
	Studio string
}

// BlackoutInput captures caller provided blackout fields.
type BlackoutInput struct {
	Studio string
	Date   string
	Start  string
	End    string
	Reason string
}

// Blackout represents a studio unavailability window.
type Blackout struct {
	ID        string
	Studio    string
	Date      string
	Start     int
	End       int
	Reason    string
	CreatedBy string
	CreatedAt time.Time
}

// ShiftInput captures caller provided technician shift fields.
type ShiftInput struct {
	Technician string
	Studio     string
	Weekday    time.Weekday
	Start      string
	End        string
	Active     bool
}

// Shift represents a weekly technician staffing record.
type Shift struct {
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

// DurationRuleInput captures caller provided duration rule fields.
type DurationRuleInput struct {
	Subject  string
	Proposal string
	Duration string
}

// DurationRule maps a (subject, proposal) pair to a session length.
type DurationRule struct {
	ID        string
	Subject   string
	Proposal  string
	Duration  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PermissionInput captures manager assigned grants for a user.
type PermissionInput struct {
	UserID      string
	DisplayName string
	CanEdit     bool
	CanCancel   bool
}

// Permission carries the explicit edit/cancel grants of a user.
type Permission struct {
	UserID      string
	DisplayName string
	CanEdit     bool
	CanCancel   bool
	UpdatedAt   time.Time
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	User    User
	Session Session
}

// AuditRecord is one booking change-log entry exposed to managers.
type AuditRecord struct {
	ID         string
	BookingID  string
	Action     string
	ActorID    string
	ActorEmail string
	Before     []byte
	After      []byte
	CreatedAt  time.Time
}

// FixedSlotInput captures caller provided weekly template fields.
type FixedSlotInput struct {
	Subject     string
	Proposal    string
	Professor   string
	Studio      string
	Technicians []string
	Weekday     time.Weekday
	Start       string
	End         string
	Type        string
}

// FixedSlot is a weekly recurring session template.
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

// GenerateParams bounds a fixed-slot materialization run.
type GenerateParams struct {
	From string
	To   string
}

// GenerateReport summarizes a fixed-slot materialization run. Skipped
// occurrences collided with existing bookings and were left alone.
type GenerateReport struct {
	Created []Booking
	Skipped []SkippedOccurrence
}

// SkippedOccurrence names one template occurrence that was not materialized.
type SkippedOccurrence struct {
	SlotID string
	Date   string
	Studio string
	Start  int
	End    int
}
