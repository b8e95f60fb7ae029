package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

type bookingRepoStub struct {
	records map[string]persistence.Booking
	err     error
}

func newBookingRepoStub(records ...persistence.Booking) *bookingRepoStub {
	stub := &bookingRepoStub{records: make(map[string]persistence.Booking)}
	for _, record := range records {
		stub.records[record.ID] = record
	}
	return stub
}

func (s *bookingRepoStub) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.records[booking.ID] = booking
	return nil
}

func (s *bookingRepoStub) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[booking.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.records[booking.ID] = booking
	return nil
}

func (s *bookingRepoStub) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if s.err != nil {
		return persistence.Booking{}, s.err
	}
	record, ok := s.records[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *bookingRepoStub) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []persistence.Booking
	for _, record := range s.records {
		if filter.Date != "" && record.Date != filter.Date {
			continue
		}
		if filter.Studio != "" && record.Studio != filter.Studio {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *bookingRepoStub) DeleteBooking(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type blackoutRepoStub struct {
	records []persistence.BlackoutPeriod
	err     error
}

func (s *blackoutRepoStub) CreateBlackout(ctx context.Context, blackout persistence.BlackoutPeriod) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, blackout)
	return nil
}

func (s *blackoutRepoStub) DeleteBlackout(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *blackoutRepoStub) ListBlackouts(ctx context.Context, studio string) ([]persistence.BlackoutPeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []persistence.BlackoutPeriod
	for _, record := range s.records {
		if studio != "" && record.Studio != studio {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

type ruleRepoStub struct {
	records []persistence.DurationRule
	err     error
}

func (s *ruleRepoStub) CreateDurationRule(ctx context.Context, rule persistence.DurationRule) error {
	if s.err != nil {
		return s.err
	}
	for _, record := range s.records {
		if record.Subject == rule.Subject && record.Proposal == rule.Proposal {
			return persistence.ErrDuplicate
		}
	}
	s.records = append(s.records, rule)
	return nil
}

func (s *ruleRepoStub) UpdateDurationRule(ctx context.Context, rule persistence.DurationRule) error {
	if s.err != nil {
		return s.err
	}
	for i, record := range s.records {
		if record.ID == rule.ID {
			s.records[i] = rule
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *ruleRepoStub) DeleteDurationRule(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *ruleRepoStub) ListDurationRules(ctx context.Context) ([]persistence.DurationRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.DurationRule, len(s.records))
	copy(out, s.records)
	return out, nil
}

type shiftRepoStub struct {
	records []persistence.TechnicianShift
	err     error
}

func (s *shiftRepoStub) CreateShift(ctx context.Context, shift persistence.TechnicianShift) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, shift)
	return nil
}

func (s *shiftRepoStub) UpdateShift(ctx context.Context, shift persistence.TechnicianShift) error {
	if s.err != nil {
		return s.err
	}
	for i, record := range s.records {
		if record.ID == shift.ID {
			s.records[i] = shift
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *shiftRepoStub) GetShift(ctx context.Context, id string) (persistence.TechnicianShift, error) {
	if s.err != nil {
		return persistence.TechnicianShift{}, s.err
	}
	for _, record := range s.records {
		if record.ID == id {
			return record, nil
		}
	}
	return persistence.TechnicianShift{}, persistence.ErrNotFound
}

func (s *shiftRepoStub) ListShifts(ctx context.Context, filter persistence.ShiftFilter) ([]persistence.TechnicianShift, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []persistence.TechnicianShift
	for _, record := range s.records {
		if filter.Studio != "" && record.Studio != filter.Studio {
			continue
		}
		if filter.Weekday != nil && record.Weekday != *filter.Weekday {
			continue
		}
		if filter.ActiveOnly && !record.Active {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *shiftRepoStub) DeleteShift(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

type permissionRepoStub struct {
	records map[string]persistence.UserPermission
	err     error
}

func newPermissionRepoStub(records ...persistence.UserPermission) *permissionRepoStub {
	stub := &permissionRepoStub{records: make(map[string]persistence.UserPermission)}
	for _, record := range records {
		stub.records[record.UserID] = record
	}
	return stub
}

func (s *permissionRepoStub) UpsertPermission(ctx context.Context, permission persistence.UserPermission) error {
	if s.err != nil {
		return s.err
	}
	s.records[permission.UserID] = permission
	return nil
}

func (s *permissionRepoStub) GetPermission(ctx context.Context, userID string) (persistence.UserPermission, error) {
	if s.err != nil {
		return persistence.UserPermission{}, s.err
	}
	record, ok := s.records[userID]
	if !ok {
		return persistence.UserPermission{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *permissionRepoStub) ListPermissions(ctx context.Context) ([]persistence.UserPermission, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []persistence.UserPermission
	for _, record := range s.records {
		out = append(out, record)
	}
	return out, nil
}

func (s *permissionRepoStub) DeletePermission(ctx context.Context, userID string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[userID]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

type userRepoStub struct {
	records map[string]persistence.User
	err     error
}

func newUserRepoStub(records ...persistence.User) *userRepoStub {
	stub := &userRepoStub{records: make(map[string]persistence.User)}
	for _, record := range records {
		stub.records[record.ID] = record
	}
	return stub
}

func (s *userRepoStub) CreateUser(ctx context.Context, user persistence.User) error {
	if s.err != nil {
		return s.err
	}
	for _, record := range s.records {
		if record.Email == user.Email {
			return persistence.ErrDuplicate
		}
	}
	s.records[user.ID] = user
	return nil
}

func (s *userRepoStub) UpdateUser(ctx context.Context, user persistence.User) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[user.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.records[user.ID] = user
	return nil
}

func (s *userRepoStub) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if s.err != nil {
		return persistence.User{}, s.err
	}
	record, ok := s.records[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *userRepoStub) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if s.err != nil {
		return persistence.User{}, s.err
	}
	for _, record := range s.records {
		if record.Email == email {
			return record, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *userRepoStub) ListUsers(ctx context.Context) ([]persistence.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []persistence.User
	for _, record := range s.records {
		out = append(out, record)
	}
	return out, nil
}

func (s *userRepoStub) DeleteUser(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type sessionRepoStub struct {
	records map[string]persistence.Session
	err     error
}

func newSessionRepoStub() *sessionRepoStub {
	return &sessionRepoStub{records: make(map[string]persistence.Session)}
}

func (s *sessionRepoStub) CreateSession(ctx context.Context, session persistence.Session) error {
	if s.err != nil {
		return s.err
	}
	s.records[session.Token] = session
	return nil
}

func (s *sessionRepoStub) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if s.err != nil {
		return persistence.Session{}, s.err
	}
	record, ok := s.records[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *sessionRepoStub) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	record, ok := s.records[token]
	if !ok {
		return persistence.ErrNotFound
	}
	record.RevokedAt = &revokedAt
	s.records[token] = record
	return nil
}

func (s *sessionRepoStub) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	if s.err != nil {
		return s.err
	}
	for token, record := range s.records {
		if !record.ExpiresAt.After(reference) {
			delete(s.records, token)
		}
	}
	return nil
}

type auditRepoStub struct {
	entries []persistence.AuditEntry
	err     error
}

func (s *auditRepoStub) AppendAudit(ctx context.Context, entry persistence.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *auditRepoStub) ListAuditForBooking(ctx context.Context, bookingID string) ([]persistence.AuditEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []persistence.AuditEntry
	for _, entry := range s.entries {
		if entry.BookingID == bookingID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type slotRepoStub struct {
	records []persistence.FixedSlot
	err     error
}

func (s *slotRepoStub) CreateFixedSlot(ctx context.Context, slot persistence.FixedSlot) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, slot)
	return nil
}

func (s *slotRepoStub) DeleteFixedSlot(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *slotRepoStub) ListFixedSlots(ctx context.Context) ([]persistence.FixedSlot, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.FixedSlot, len(s.records))
	copy(out, s.records)
	return out, nil
}

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
