package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/example/studio-booking/internal/booking"
)

const (
	defaultAvailabilityTTL     = 3 * time.Second
	defaultAvailabilityEntries = 256
)

// AvailabilityService answers draft booking previews: given the fields a
// user has filled in so far, it reports the derived end time, the staffing
// segments and the technician assignment, or the reason the interval is not
// bookable. Results are cached briefly because the form orchestrator issues
// the same query repeatedly while the user types; previews are advisory and
// every persisted mutation re-runs the checks against fresh state.
type AvailabilityService struct {
	bookings *BookingService
	cache    *expirable.LRU[string, Availability]
	logger   *slog.Logger
}

// NewAvailabilityService wires a preview service on top of the booking
// pipeline. ttl bounds how stale a cached preview may be; zero selects the
// default.
func NewAvailabilityService(bookings *BookingService, ttl time.Duration, logger *slog.Logger) *AvailabilityService {
	if ttl <= 0 {
		ttl = defaultAvailabilityTTL
	}
	return &AvailabilityService{
		bookings: bookings,
		cache:    expirable.NewLRU[string, Availability](defaultAvailabilityEntries, nil, ttl),
		logger:   defaultLogger(logger),
	}
}

// Evaluate runs the availability pipeline for a draft interval.
func (s *AvailabilityService) Evaluate(ctx context.Context, query AvailabilityQuery) (Availability, error) {
	if s == nil || s.bookings == nil {
		return Availability{}, fmt.Errorf("availability service not configured")
	}

	start, vErr := validateAvailabilityQuery(query)
	if vErr.HasErrors() {
		return Availability{}, vErr
	}

	key := availabilityKey(query)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	availability, err := s.bookings.evaluate(ctx, evaluation{
		Studio:    query.Studio,
		Date:      query.Date,
		Subject:   query.Subject,
		Proposal:  query.Proposal,
		Start:     start,
		ExcludeID: query.ExcludeBookingID,
	})
	if err != nil {
		return Availability{}, err
	}

	s.cache.Add(key, availability)
	return availability, nil
}

// Invalidate drops all cached previews. Callers invoke it after any booking,
// blackout, shift or rule mutation.
func (s *AvailabilityService) Invalidate() {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.Purge()
}

func availabilityKey(query AvailabilityQuery) string {
	return strings.Join([]string{
		query.Studio,
		query.Date,
		query.Start,
		query.Subject,
		query.Proposal,
		query.ExcludeBookingID,
	}, "|")
}

func validateAvailabilityQuery(query AvailabilityQuery) (int, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(query.Studio) == "" {
		vErr.add("studio", "studio is required")
	} else if !validStudio(query.Studio) {
		vErr.add("studio", "unknown studio")
	}
	if strings.TrimSpace(query.Date) == "" {
		vErr.add("date", "date is required")
	} else if _, err := time.Parse(dateLayout, query.Date); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(query.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if strings.TrimSpace(query.Proposal) == "" {
		vErr.add("proposal", "proposal is required")
	}

	start := 0
	if strings.TrimSpace(query.Start) == "" {
		vErr.add("start", "start is required")
	} else {
		parsed, err := booking.ParseClock(query.Start)
		if err != nil {
			vErr.add("start", "start must be HH:MM")
		} else {
			start = parsed
		}
	}

	return start, vErr
}
