package lookup

import (
	"uc-timelapse/internal/domain"
)

// key is the composite (series, date) key of a ValueLookup entry.
type key struct {
	series domain.SeriesKey
	date   domain.CanonicalDate
}

// ValueLookup maps (series, date) to a value.
// Only dates with raw data have entries; absent keys read as 0.
type ValueLookup struct {
	values map[key]float64
}

// NewValueLookup creates an empty lookup.
func NewValueLookup() *ValueLookup {
	return &ValueLookup{values: make(map[key]float64)}
}

// Set stores v for (series, date), replacing any earlier value.
// Callers feeding records in input order get last-write-wins semantics.
func (l *ValueLookup) Set(series domain.SeriesKey, date domain.CanonicalDate, v float64) {
	l.values[key{series, date}] = v
}

// Get returns the value for (series, date), or 0 if absent.
func (l *ValueLookup) Get(series domain.SeriesKey, date domain.CanonicalDate) float64 {
	return l.values[key{series, date}]
}

// Has reports whether raw data exists for (series, date).
func (l *ValueLookup) Has(series domain.SeriesKey, date domain.CanonicalDate) bool {
	_, ok := l.values[key{series, date}]
	return ok
}

// Len returns the number of stored entries.
func (l *ValueLookup) Len() int {
	return len(l.values)
}

// Column reads one series across the axis, 0 where no entry exists.
func (l *ValueLookup) Column(series domain.SeriesKey, axis domain.DateAxis) []float64 {
	out := make([]float64, len(axis))
	for i, d := range axis {
		out[i] = l.Get(series, d)
	}
	return out
}

// Total sums one series over every date of the axis.
func (l *ValueLookup) Total(series domain.SeriesKey, axis domain.DateAxis) float64 {
	var sum float64
	for _, d := range axis {
		sum += l.Get(series, d)
	}
	return sum
}
