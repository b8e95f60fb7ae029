// Package template expands weekly fixed-slot templates into concrete dates.
// It is the batch counterpart of the interactive booking flow: a fixed slot
// (e.g. "Matemática, Estudio 170, every Tuesday 09:00-10:00") is stamped
// onto every matching date in a range.
package template

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates the expansion window is empty or inverted.
var ErrInvalidRange = errors.New("template: range end precedes start")

// Expand returns every date of the given weekday inside [from, to],
// inclusive on both ends. Time-of-day components of the bounds are ignored;
// results are normalized to midnight in the bounds' location.
func Expand(weekday time.Weekday, from, to time.Time) ([]time.Time, error) {
	start := midnight(from)
	end := midnight(to)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	cursor := start
	for cursor.Weekday() != weekday {
		cursor = cursor.AddDate(0, 0, 1)
	}

	var dates []time.Time
	for !cursor.After(end) {
		dates = append(dates, cursor)
		cursor = cursor.AddDate(0, 0, 7)
	}
	return dates, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
