package memory

import (
	"context"
	"sync"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
)

// RecordStore is an in-memory implementation of storage.RecordStore.
type RecordStore struct {
	mu   sync.RWMutex
	data []domain.RawRecord // insertion order
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// InsertBulk appends records in the given order. Fails entire batch on invalid input.
func (s *RecordStore) InsertBulk(_ context.Context, records []domain.RawRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data, records...)
	return nil
}

// GetAll retrieves all records in insertion order.
func (s *RecordStore) GetAll(_ context.Context) ([]domain.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RawRecord, len(s.data))
	copy(result, s.data)
	return result, nil
}

// GetBySeries retrieves all records of one series in insertion order.
func (s *RecordStore) GetBySeries(_ context.Context, seriesName string) ([]domain.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.RawRecord
	for _, r := range s.data {
		if r.SeriesName == seriesName {
			result = append(result, r)
		}
	}
	return result, nil
}

// ListSeries returns distinct series names in first-inserted order.
func (s *RecordStore) ListSeries(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var result []string
	for _, r := range s.data {
		if _, ok := seen[r.SeriesName]; ok {
			continue
		}
		seen[r.SeriesName] = struct{}{}
		result = append(result, r.SeriesName)
	}
	return result, nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}

var _ storage.RecordStore = (*RecordStore)(nil)
