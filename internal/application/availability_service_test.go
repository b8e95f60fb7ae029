package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/persistence"
)

func testAvailabilityService(ttl time.Duration) (*AvailabilityService, *bookingRepoStub) {
	repos, bookings, _ := testRepos()
	bookingService := NewBookingService(repos, sequentialIDs("bk"), nil, 5*time.Minute, nil)
	return NewAvailabilityService(bookingService, ttl, nil), bookings
}

func validQuery() AvailabilityQuery {
	return AvailabilityQuery{
		Studio:   "Estudio 170",
		Date:     testDate,
		Subject:  "Matemática",
		Proposal: "Gravação",
		Start:    "14:00",
	}
}

func TestEvaluateDerivesAvailability(t *testing.T) {
	service, _ := testAvailabilityService(time.Minute)

	availability, err := service.Evaluate(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if availability.Start != 840 || availability.End != 900 {
		t.Fatalf("expected [840, 900), got [%d, %d)", availability.Start, availability.End)
	}
	if len(availability.Technicians) != 1 || availability.Technicians[0] != "Bruno" {
		t.Fatalf("expected technician Bruno, got %v", availability.Technicians)
	}
}

func TestEvaluateReportsConflict(t *testing.T) {
	service, bookings := testAvailabilityService(time.Minute)
	bookings.records["busy"] = persistence.Booking{
		ID: "busy", Date: testDate, Studio: "Estudio 170", Start: 870, End: 930,
	}

	_, err := service.Evaluate(context.Background(), validQuery())
	if !errors.Is(err, booking.ErrBookingConflict) {
		t.Fatalf("expected booking conflict, got %v", err)
	}
}

func TestEvaluateIncompleteQuery(t *testing.T) {
	service, _ := testAvailabilityService(time.Minute)

	_, err := service.Evaluate(context.Background(), AvailabilityQuery{Studio: "Estudio 170"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEvaluateCachesUntilInvalidated(t *testing.T) {
	service, bookings := testAvailabilityService(time.Hour)

	if _, err := service.Evaluate(context.Background(), validQuery()); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	// A conflicting booking appears, but the cached preview still answers.
	bookings.records["busy"] = persistence.Booking{
		ID: "busy", Date: testDate, Studio: "Estudio 170", Start: 870, End: 930,
	}

	if _, err := service.Evaluate(context.Background(), validQuery()); err != nil {
		t.Fatalf("expected cached preview, got error: %v", err)
	}

	service.Invalidate()
	if _, err := service.Evaluate(context.Background(), validQuery()); !errors.Is(err, booking.ErrBookingConflict) {
		t.Fatalf("expected booking conflict after invalidation, got %v", err)
	}
}
