package booking

import (
	"errors"
	"fmt"
	"sort"
)

// Shift is one technician's staffed range on a given studio and weekday,
// expressed in minutes since midnight as a half-open interval.
type Shift struct {
	Technician string
	Start      int
	End        int
}

// Segment is a maximal sub-interval of a requested range during which a
// fixed set of technicians is available.
type Segment struct {
	Start       int
	End         int
	Technicians []string
}

// Coverage is the successful outcome of a coverage computation: an ordered
// sequence of segments partitioning the requested interval, plus the
// consolidated technician assignment. Relay is true when no single shift
// spans the whole request and staffing requires a handoff.
type Coverage struct {
	Segments    []Segment
	Technicians []string
	Relay       bool
}

// ErrNoShifts indicates that no technician shift exists at all for the
// requested studio and weekday.
var ErrNoShifts = errors.New("booking: no technician configured")

// GapError indicates that no shift covers the request at a specific minute.
// The entire coverage check aborts on the first gap found.
type GapError struct {
	At int
}

func (e *GapError) Error() string {
	return fmt.Sprintf("booking: no technician available at %s", FormatClock(e.At))
}

// ComputeCoverage sweeps the shift set across [start, end) and merges the
// shifts into contiguous coverage segments. Shifts must be pre-filtered to
// the studio and weekday under evaluation. Callers are responsible for
// rejecting degenerate requests (end <= start) before invoking the sweep.
//
// Shifts that exactly abut are continuous coverage: the sweep advances the
// cursor to the boundary and immediately finds the next shift active there.
func ComputeCoverage(shifts []Shift, start, end int) (Coverage, error) {
	if len(shifts) == 0 {
		return Coverage{}, ErrNoShifts
	}

	ordered := make([]Shift, len(shifts))
	copy(ordered, shifts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	var segments []Segment
	cursor := start
	for cursor < end {
		active := make([]Shift, 0, len(ordered))
		for _, shift := range ordered {
			if shift.Start <= cursor && shift.End > cursor {
				active = append(active, shift)
			}
		}
		if len(active) == 0 {
			return Coverage{}, &GapError{At: cursor}
		}

		segmentEnd := end
		names := make([]string, 0, len(active))
		for _, shift := range active {
			if shift.End < segmentEnd {
				segmentEnd = shift.End
			}
			names = append(names, shift.Technician)
		}

		segments = append(segments, Segment{
			Start:       cursor,
			End:         segmentEnd,
			Technicians: uniqueSorted(names),
		})
		cursor = segmentEnd
	}

	// A technician whose single shift spans the full request takes the
	// assignment outright; otherwise everyone appearing in any segment
	// staffs the session in relay.
	full := make([]string, 0, len(ordered))
	for _, shift := range ordered {
		if shift.Start <= start && shift.End >= end {
			full = append(full, shift.Technician)
		}
	}
	if len(full) > 0 {
		return Coverage{Segments: segments, Technicians: uniqueSorted(full)}, nil
	}

	union := make([]string, 0, len(segments))
	for _, segment := range segments {
		union = append(union, segment.Technicians...)
	}
	return Coverage{Segments: segments, Technicians: uniqueSorted(union), Relay: true}, nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
