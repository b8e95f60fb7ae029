package booking

import (
	"strconv"
	"strings"
)

// DurationRule maps a (subject, proposal) pair to a session length given as
// "H:MM" or "HH:MM".
type DurationRule struct {
	Subject  string
	Proposal string
	Duration string
}

// ResolveEnd derives the end time for a session starting at start minutes,
// using the first rule matching the subject and proposal. It returns false
// when no rule matches or the matched duration is malformed; callers must
// treat that as "duration unknown" and skip any downstream coverage check.
func ResolveEnd(subject, proposal string, start int, rules []DurationRule) (int, bool) {
	for _, rule := range rules {
		if rule.Subject != subject || rule.Proposal != proposal {
			continue
		}
		length, ok := ParseDuration(rule.Duration)
		if !ok {
			return 0, false
		}
		return start + length, true
	}
	return 0, false
}

// ParseDuration converts a rule duration ("H:MM" or "HH:MM") to minutes.
func ParseDuration(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
