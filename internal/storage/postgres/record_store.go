package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
)

// RecordStore implements storage.RecordStore using PostgreSQL.
// Insertion order is kept by the raw_records.seq BIGSERIAL column.
type RecordStore struct {
	pool *Pool
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(pool *Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

// InsertBulk appends records in the given order inside one transaction.
func (s *RecordStore) InsertBulk(ctx context.Context, records []domain.RawRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// COPY assigns seq values in row order.
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"raw_records"},
		[]string{"series_name", "raw_date", "value"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.SeriesName, r.RawDate, r.Value}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy raw records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
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

	rows, err := s.pool.Query(ctx, query)
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
		WHERE series_name = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, seriesName)
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
		ORDER BY MIN(seq) ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query series names: %w", err)
	}
	defer rows.Close()

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan series names: %w", err)
	}
	return names, nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM raw_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count raw records: %w", err)
	}
	return int(count), nil
}

// scanRecords scans all rows into RawRecords.
func scanRecords(rows pgx.Rows) ([]domain.RawRecord, error) {
	var records []domain.RawRecord

	for rows.Next() {
		var r domain.RawRecord
		if err := rows.Scan(&r.SeriesName, &r.RawDate, &r.Value); err != nil {
			return nil, fmt.Errorf("scan raw record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw records: %w", err)
	}

	return records, nil
}
