package domain

// RawRecord is one entry of the input document.
// Records are immutable once loaded; their order is significant.
type RawRecord struct {
	SeriesName string  `json:"name"`              // series (use-case) label
	RawDate    string  `json:"confirmation_date"` // locale date, M/D/YYYY
	Value      float64 `json:"value"`
}

// SeriesKey identifies a series by its name.
type SeriesKey = string

// SeriesTotal is the cumulative value of a series over the whole date axis.
// Only used while ranking.
type SeriesTotal struct {
	Key   SeriesKey
	Total float64
}
