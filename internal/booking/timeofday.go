package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds the wall-clock minute domain handled by the core.
const MinutesPerDay = 24 * 60

// ParseClock converts a wall-clock string in "HH:MM" or "HH:MM:SS" form to
// minutes since midnight. Seconds are folded into whole minutes.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("booking: invalid clock value %q", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("booking: invalid clock value %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("booking: invalid clock value %q", value)
	}

	total := hours*60 + minutes

	if len(parts) == 3 {
		seconds, err := strconv.Atoi(parts[2])
		if err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("booking: invalid clock value %q", value)
		}
		total += seconds / 60
	}

	return total, nil
}

// FormatClock renders minutes since midnight as a zero-padded "HH:MM" string.
// Values of 1440 or more yield out-of-range hour components; callers that
// need day rollover must normalize before formatting.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that exactly abut do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
