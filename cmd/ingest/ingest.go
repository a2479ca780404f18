package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/normalization"
	"uc-timelapse/internal/observability"
	"uc-timelapse/internal/source"
	"uc-timelapse/internal/storage"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Records     int // records appended
	Batches     int
	Series      int // distinct series in the document
	StoreTotal  int // records in the store afterwards
	StoreSeries int // distinct series in the store afterwards
}

// Ingest reads the whole document, checks every date, then appends it in
// document order in batches of batchSize. A malformed date aborts before
// anything is written.
func Ingest(ctx context.Context, src source.Source, store storage.RecordStore, batchSize int, database string, log logrus.FieldLogger) (*Stats, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	if err := validateDocument(records); err != nil {
		return nil, err
	}

	stats := &Stats{}
	seen := make(map[domain.SeriesKey]struct{})
	for _, r := range records {
		seen[r.SeriesName] = struct{}{}
	}
	stats.Series = len(seen)

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := store.InsertBulk(ctx, records[start:end]); err != nil {
			return stats, fmt.Errorf("insert batch %d: %w", stats.Batches+1, err)
		}
		stats.Batches++
		stats.Records += end - start
		observability.RecordIngested(database, end-start)

		log.WithFields(logrus.Fields{
			"batch":   stats.Batches,
			"records": stats.Records,
		}).Debug("batch stored")
	}

	total, err := store.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("count records: %w", err)
	}
	stats.StoreTotal = total

	series, err := store.ListSeries(ctx)
	if err != nil {
		return stats, fmt.Errorf("list series: %w", err)
	}
	stats.StoreSeries = len(series)

	return stats, nil
}

func validateDocument(records []domain.RawRecord) error {
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}
	for i, r := range records {
		if _, err := normalization.NormalizeDate(r.RawDate); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
