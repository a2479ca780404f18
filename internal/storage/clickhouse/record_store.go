package clickhouse

import (
	"context"
	"fmt"
	"sync"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
)

// RecordStore implements storage.RecordStore using ClickHouse.
//
// ClickHouse has no auto-increment, so InsertBulk assigns seq from max(seq)+1.
// Concurrent writers from separate processes are not supported.
type RecordStore struct {
	conn *Conn
	mu   sync.Mutex // serializes seq assignment within this process
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(conn *Conn) *RecordStore {
	return &RecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

// InsertBulk appends records in the given order as one batch.
func (s *RecordStore) InsertBulk(ctx context.Context, records []domain.RawRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.nextSeq(ctx)
	if err != nil {
		return fmt.Errorf("next seq: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO raw_records (seq, series_name, raw_date, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, r := range records {
		if err := batch.Append(next+uint64(i), r.SeriesName, r.RawDate, r.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves all records in insertion order.
func (s *RecordStore) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	query := `
		SELECT series_name, raw_date, value
		FROM raw_records
		ORDER BY seq ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query raw records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetBySeries retrieves all records of one series in insertion order.
func (s *RecordStore) GetBySeries(ctx context.Context, seriesName string) ([]domain.RawRecord, error) {
	query := `
		SELECT series_name, raw_date, value
		FROM raw_records
		WHERE series_name = ?
		ORDER BY seq ASC
	`

	rows, err := s.conn.Query(ctx, query, seriesName)
	if err != nil {
		return nil, fmt.Errorf("query raw records by series: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListSeries returns distinct series names in first-inserted order.
func (s *RecordStore) ListSeries(ctx context.Context) ([]string, error) {
	query := `
		SELECT series_name
		FROM raw_records
		GROUP BY series_name
		ORDER BY min(seq) ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query series names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan series name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series names: %w", err)
	}
	return names, nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var count uint64
	if err := s.conn.QueryRow(ctx, `SELECT count(*) FROM raw_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count raw records: %w", err)
	}
	return int(count), nil
}

// nextSeq returns the seq value for the next inserted record.
func (s *RecordStore) nextSeq(ctx context.Context) (uint64, error) {
	var count, maxSeq uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*), max(seq) FROM raw_records`).Scan(&count, &maxSeq)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 1, nil
	}
	return maxSeq + 1, nil
}

// scanRecords scans multiple rows.
func scanRecords(rows chRows) ([]domain.RawRecord, error) {
	var records []domain.RawRecord

	for rows.Next() {
		var r domain.RawRecord
		if err := rows.Scan(&r.SeriesName, &r.RawDate, &r.Value); err != nil {
			return nil, fmt.Errorf("scan raw record row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw record rows: %w", err)
	}

	return records, nil
}
