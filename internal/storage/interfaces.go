package storage

import (
	"context"

	"uc-timelapse/internal/domain"
)

// RecordStore provides access to raw_records storage.
//
// Record order is significant: duplicate (series, date) pairs resolve to the
// last record, so every implementation keeps an insertion sequence and returns
// records in that order.
type RecordStore interface {
	// InsertBulk appends records in the given order. Fails entire batch on invalid input.
	InsertBulk(ctx context.Context, records []domain.RawRecord) error

	// GetAll retrieves all records in insertion order.
	GetAll(ctx context.Context) ([]domain.RawRecord, error)

	// GetBySeries retrieves all records of one series in insertion order.
	GetBySeries(ctx context.Context, seriesName string) ([]domain.RawRecord, error)

	// ListSeries returns distinct series names in first-inserted order.
	ListSeries(ctx context.Context) ([]string, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// ValidateRecords checks a batch before insert.
// Returns ErrInvalidInput if any record has an empty series name or date.
func ValidateRecords(records []domain.RawRecord) error {
	for _, r := range records {
		if r.SeriesName == "" || r.RawDate == "" {
			return ErrInvalidInput
		}
	}
	return nil
}
