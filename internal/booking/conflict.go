package booking

import "errors"

// Candidate is the proposed booking interval checked for collisions.
type Candidate struct {
	Studio string
	Date   string
	Start  int
	End    int
}

// Window is an existing booking's occupancy of a studio on a date.
type Window struct {
	ID     string
	Studio string
	Date   string
	Start  int
	End    int
}

// Blackout is a studio-wide unavailability window (maintenance, cleaning).
type Blackout struct {
	Studio string
	Date   string
	Start  int
	End    int
}

var (
	// ErrBookingConflict indicates the candidate overlaps another booking
	// in the same studio on the same date.
	ErrBookingConflict = errors.New("booking: conflicting booking")
	// ErrBlackoutConflict indicates the candidate falls inside a studio
	// blackout window.
	ErrBlackoutConflict = errors.New("booking: studio unavailable")
)

// CheckConflicts validates the candidate against existing bookings and
// blackout windows using half-open interval semantics. In edit mode,
// excludeID names the booking being edited so it does not collide with
// itself. The first conflict found wins; booking collisions are reported
// before blackout collisions because their remediation differs.
func CheckConflicts(candidate Candidate, existing []Window, blackouts []Blackout, excludeID string) error {
	for _, window := range existing {
		if excludeID != "" && window.ID == excludeID {
			continue
		}
		if window.Studio != candidate.Studio || window.Date != candidate.Date {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, window.Start, window.End) {
			return ErrBookingConflict
		}
	}

	for _, blackout := range blackouts {
		if blackout.Studio != candidate.Studio || blackout.Date != candidate.Date {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, blackout.Start, blackout.End) {
			return ErrBlackoutConflict
		}
	}

	return nil
}
