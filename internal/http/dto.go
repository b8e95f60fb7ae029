package http

import (
	"strings"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/booking"
)

// Wall-clock minutes cross this boundary as "HH:MM" strings; weekdays as
// Portuguese labels alongside their numeric value.

var weekdayLabels = [7]string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

func weekdayLabel(weekday time.Weekday) string {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ""
	}
	return weekdayLabels[weekday]
}

type bookingDTO struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Studio      string    `json:"studio"`
	Subject     string    `json:"subject"`
	Proposal    string    `json:"proposal"`
	Professor   string    `json:"professor"`
	Technicians []string  `json:"technicians"`
	Technician  string    `json:"technician"`
	Type        string    `json:"type"`
	OwnerID     string    `json:"owner_id"`
	OwnerEmail  string    `json:"owner_email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBookingDTO(record application.Booking) bookingDTO {
	return bookingDTO{
		ID:          record.ID,
		Date:        record.Date,
		Start:       booking.FormatClock(record.Start),
		End:         booking.FormatClock(record.End),
		Studio:      record.Studio,
		Subject:     record.Subject,
		Proposal:    record.Proposal,
		Professor:   record.Professor,
		Technicians: record.Technicians,
		Technician:  strings.Join(record.Technicians, " / "),
		Type:        record.Type,
		OwnerID:     record.OwnerID,
		OwnerEmail:  record.OwnerEmail,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

type segmentDTO struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Technicians []string `json:"technicians"`
}

type availabilityDTO struct {
	Start       string       `json:"start"`
	End         string       `json:"end"`
	Relay       bool         `json:"relay"`
	Technicians []string     `json:"technicians"`
	Segments    []segmentDTO `json:"segments"`
}

func toAvailabilityDTO(availability application.Availability) availabilityDTO {
	segments := make([]segmentDTO, 0, len(availability.Segments))
	for _, segment := range availability.Segments {
		segments = append(segments, segmentDTO{
			Start:       booking.FormatClock(segment.Start),
			End:         booking.FormatClock(segment.End),
			Technicians: segment.Technicians,
		})
	}
	return availabilityDTO{
		Start:       booking.FormatClock(availability.Start),
		End:         booking.FormatClock(availability.End),
		Relay:       availability.Relay,
		Technicians: availability.Technicians,
		Segments:    segments,
	}
}

type blackoutDTO struct {
	ID        string    `json:"id"`
	Studio    string    `json:"studio"`
	Date      string    `json:"date"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toBlackoutDTO(record application.Blackout) blackoutDTO {
	return blackoutDTO{
		ID:        record.ID,
		Studio:    record.Studio,
		Date:      record.Date,
		Start:     booking.FormatClock(record.Start),
		End:       booking.FormatClock(record.End),
		Reason:    record.Reason,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt,
	}
}

type shiftDTO struct {
	ID           string    `json:"id"`
	Technician   string    `json:"technician"`
	Studio       string    `json:"studio"`
	Weekday      int       `json:"weekday"`
	WeekdayLabel string    `json:"weekday_label"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toShiftDTO(record application.Shift) shiftDTO {
	return shiftDTO{
		ID:           record.ID,
		Technician:   record.Technician,
		Studio:       record.Studio,
		Weekday:      int(record.Weekday),
		WeekdayLabel: weekdayLabel(record.Weekday),
		Start:        booking.FormatClock(record.Start),
		End:          booking.FormatClock(record.End),
		Active:       record.Active,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

type durationRuleDTO struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Proposal  string    `json:"proposal"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDurationRuleDTO(record application.DurationRule) durationRuleDTO {
	return durationRuleDTO{
		ID:        record.ID,
		Subject:   record.Subject,
		Proposal:  record.Proposal,
		Duration:  record.Duration,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

type permissionDTO struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CanEdit     bool      `json:"can_edit"`
	CanCancel   bool      `json:"can_cancel"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPermissionDTO(record application.Permission) permissionDTO {
	return permissionDTO{
		UserID:      record.UserID,
		DisplayName: record.DisplayName,
		CanEdit:     record.CanEdit,
		CanCancel:   record.CanCancel,
		UpdatedAt:   record.UpdatedAt,
	}
}

type userDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserDTO(record application.User) userDTO {
	return userDTO{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		IsAdmin:     record.IsAdmin,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

type fixedSlotDTO struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	Proposal     string    `json:"proposal"`
	Professor    string    `json:"professor"`
	Studio       string    `json:"studio"`
	Technicians  []string  `json:"technicians"`
	Weekday      int       `json:"weekday"`
	WeekdayLabel string    `json:"weekday_label"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}

func toFixedSlotDTO(record application.FixedSlot) fixedSlotDTO {
	return fixedSlotDTO{
		ID:           record.ID,
		Subject:      record.Subject,
		Proposal:     record.Proposal,
		Professor:    record.Professor,
		Studio:       record.Studio,
		Technicians:  record.Technicians,
		Weekday:      int(record.Weekday),
		WeekdayLabel: weekdayLabel(record.Weekday),
		Start:        booking.FormatClock(record.Start),
		End:          booking.FormatClock(record.End),
		Type:         record.Type,
		CreatedAt:    record.CreatedAt,
	}
}

type auditRecordDTO struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
