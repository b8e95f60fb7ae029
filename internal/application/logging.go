package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountDisabled):
		return "account_disabled"
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrSessionRevoked):
		return "session_revoked"
	case errors.Is(err, ErrNoDurationRule):
		return "no_duration_rule"
	case errors.Is(err, ErrEditWindowExpired):
		return "edit_window_expired"
	case errors.Is(err, ErrNotPermitted):
		return "not_permitted"
	case errors.Is(err, booking.ErrBookingConflict):
		return "booking_conflict"
	case errors.Is(err, booking.ErrBlackoutConflict):
		return "blackout_conflict"
	case errors.Is(err, booking.ErrNoShifts):
		return "no_shifts"
	}

	var gapErr *booking.GapError
	if errors.As(err, &gapErr) {
		return "coverage_gap"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
