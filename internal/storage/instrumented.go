package storage

import (
	"context"
	"time"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/observability"
)

// instrumentedStore records query duration and errors for every call.
type instrumentedStore struct {
	inner    RecordStore
	database string
}

// Instrument wraps store so each operation is reported to the database metrics
// under the given database label.
func Instrument(store RecordStore, database string) RecordStore {
	return &instrumentedStore{inner: store, database: database}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	observability.RecordDBQuery(s.database, op, time.Since(start).Seconds(), err)
}

func (s *instrumentedStore) InsertBulk(ctx context.Context, records []domain.RawRecord) error {
	start := time.Now()
	err := s.inner.InsertBulk(ctx, records)
	s.observe("insert_bulk", start, err)
	return err
}

func (s *instrumentedStore) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := s.inner.GetAll(ctx)
	s.observe("get_all", start, err)
	return records, err
}

func (s *instrumentedStore) GetBySeries(ctx context.Context, seriesName string) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := s.inner.GetBySeries(ctx, seriesName)
	s.observe("get_by_series", start, err)
	return records, err
}

func (s *instrumentedStore) ListSeries(ctx context.Context) ([]string, error) {
	start := time.Now()
	series, err := s.inner.ListSeries(ctx)
	s.observe("list_series", start, err)
	return series, err
}

func (s *instrumentedStore) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.inner.Count(ctx)
	s.observe("count", start, err)
	return n, err
}
