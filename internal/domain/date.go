package domain

// CanonicalDateLayout is the time layout of CanonicalDate.
const CanonicalDateLayout = "2006-01-02"

// CanonicalDate is a calendar date in YYYY-MM-DD form.
// Lexicographic order equals chronological order.
type CanonicalDate string

// String returns the string representation of CanonicalDate.
func (d CanonicalDate) String() string {
	return string(d)
}

// Before reports whether d is strictly earlier than other.
func (d CanonicalDate) Before(other CanonicalDate) bool {
	return d < other
}

// DateAxis is a contiguous, strictly increasing sequence of dates, one day per step.
type DateAxis []CanonicalDate

// First returns the first date of the axis, or "" for an empty axis.
func (a DateAxis) First() CanonicalDate {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// Last returns the last date of the axis, or "" for an empty axis.
func (a DateAxis) Last() CanonicalDate {
	if len(a) == 0 {
		return ""
	}
	return a[len(a)-1]
}
