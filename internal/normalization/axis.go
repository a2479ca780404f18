package normalization

import (
	"time"

	"uc-timelapse/internal/domain"
)

// BuildDateAxis returns every calendar date from start through end, inclusive.
//
// Both bounds are reduced to their calendar date in their own location, so the
// caller decides which timezone "today" means. start after end yields an empty axis.
func BuildDateAxis(start, end time.Time) domain.DateAxis {
	first := calendarDay(start)
	last := calendarDay(end)

	if first.After(last) {
		return domain.DateAxis{}
	}

	// Day count via UTC midnights is exact; no DST drift.
	days := int(last.Sub(first).Hours()/24) + 1
	axis := make(domain.DateAxis, 0, days)
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 0, 1) {
		axis = append(axis, FormatCanonical(cur))
	}

	return axis
}

// BuildDateAxisBetween is BuildDateAxis over canonical date bounds.
// Returns a ParseError if either bound is not a valid canonical date.
func BuildDateAxisBetween(start, end domain.CanonicalDate) (domain.DateAxis, error) {
	s, err := ParseCanonical(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseCanonical(end)
	if err != nil {
		return nil, err
	}
	return BuildDateAxis(s, e), nil
}

// calendarDay maps t to UTC midnight of its calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
