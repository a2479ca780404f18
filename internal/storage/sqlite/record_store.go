// Package sqlite provides a file-backed RecordStore for single-host deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS raw_records (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    series_name TEXT NOT NULL,
    raw_date TEXT NOT NULL,
    value REAL NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_raw_records_series ON raw_records (series_name, seq);
`

// RecordStore implements storage.RecordStore on a SQLite database file.
type RecordStore struct {
	db *sql.DB
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*RecordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite serializes writers; a single connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &RecordStore{db: db}, nil
}

// Close closes the underlying database.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// InsertBulk appends records in the given order inside one transaction.
func (s *RecordStore) InsertBulk(ctx context.Context, records []domain.RawRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO raw_records (series_name, raw_date, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.SeriesName, r.RawDate, r.Value); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetAll retrieves all records in insertion order.
func (s *RecordStore) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_name, raw_date, value
		FROM raw_records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query raw records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetBySeries retrieves all records of one series in insertion order.
func (s *RecordStore) GetBySeries(ctx context.Context, seriesName string) ([]domain.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_name, raw_date, value
		FROM raw_records
		WHERE series_name = ?
		ORDER BY seq ASC
	`, seriesName)
	if err != nil {
		return nil, fmt.Errorf("query raw records by series: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListSeries returns distinct series names in first-inserted order.
func (s *RecordStore) ListSeries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series_name
		FROM raw_records
		GROUP BY series_name
		ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count raw records: %w", err)
	}
	return n, nil
}

func scanRecords(rows *sql.Rows) ([]domain.RawRecord, error) {
	var out []domain.RawRecord
	for rows.Next() {
		var r domain.RawRecord
		if err := rows.Scan(&r.SeriesName, &r.RawDate, &r.Value); err != nil {
			return nil, fmt.Errorf("scan raw record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw records: %w", err)
	}
	return out, nil
}
